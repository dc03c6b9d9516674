package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNew_SetsLevelAndService(t *testing.T) {
	log := New("debug", "shopify-facade")

	assert.Equal(t, logrus.DebugLevel, log.Logger.GetLevel())
	assert.Equal(t, "shopify-facade", log.Data["service"])
}

func TestNew_UnknownLevelFallsBackToInfo(t *testing.T) {
	log := New("loud", "svc")

	assert.Equal(t, logrus.InfoLevel, log.Logger.GetLevel())
}

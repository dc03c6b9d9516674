package shopify

import "strings"

const (
	ProductGIDPrefix            = "gid://shopify/Product/"
	DiscountAutomaticNodePrefix = "gid://shopify/DiscountAutomaticNode/"
)

// LastSegment returns the part of a global id after its final slash.
func LastSegment(gid string) string {
	if i := strings.LastIndexByte(gid, '/'); i >= 0 {
		return gid[i+1:]
	}
	return gid
}

func ProductGID(id string) string { return ProductGIDPrefix + id }

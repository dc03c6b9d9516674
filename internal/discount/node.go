package discount

import "encoding/json"

// NodeData mirrors the "data" member of the automaticDiscountNode query.
type NodeData struct {
	AutomaticDiscountNode *Node `json:"automaticDiscountNode"`
}

type Node struct {
	ID                string             `json:"id"`
	AutomaticDiscount *AutomaticDiscount `json:"automaticDiscount"`
}

type AutomaticDiscount struct {
	CustomerGets *CustomerGets `json:"customerGets"`
}

type CustomerGets struct {
	Items *Items `json:"items"`
	Value *Value `json:"value"`
}

type Items struct {
	ProductVariants *struct {
		Edges []VariantEdge `json:"edges"`
	} `json:"productVariants"`
}

type VariantEdge struct {
	Node Variant `json:"node"`
}

type Variant struct {
	ID      string `json:"id"`
	Price   string `json:"price"`
	Product struct {
		Title  string `json:"title"`
		Handle string `json:"handle"`
	} `json:"product"`
}

type Value struct {
	// Percentage stays raw so a string or null can be told apart from a number.
	Percentage json.RawMessage `json:"percentage"`
}

func (d *NodeData) customerGets() *CustomerGets {
	if d == nil || d.AutomaticDiscountNode == nil || d.AutomaticDiscountNode.AutomaticDiscount == nil {
		return nil
	}
	return d.AutomaticDiscountNode.AutomaticDiscount.CustomerGets
}

func (g *CustomerGets) variantEdges() []VariantEdge {
	if g.Items == nil || g.Items.ProductVariants == nil {
		return nil
	}
	return g.Items.ProductVariants.Edges
}

const nodeQuery = `query DiscountNode($id: ID!) {
  automaticDiscountNode(id: $id) {
    id
    automaticDiscount {
      ... on DiscountAutomaticBasic {
        customerGets {
          items {
            ... on DiscountProducts {
              __typename
              productVariants(first: 10) {
                edges {
                  node {
                    id
                    product {
                      title
                      handle
                    }
                    price
                  }
                }
              }
            }
          }
          value {
            ... on DiscountPercentage {
              __typename
              percentage
            }
          }
        }
      }
    }
  }
}`

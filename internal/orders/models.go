package orders

// Summary is one past order projected down to the requested product.
type Summary struct {
	OrderID     string       `json:"orderId"`
	OrderNumber string       `json:"orderNumber"`
	CreatedAt   string       `json:"createdAt"`
	Customer    *Customer    `json:"customer"`
	Product     *LineProduct `json:"product"`
}

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	FullName  string `json:"fullName"`
}

type LineProduct struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// wire shapes of the product and orders queries

type productData struct {
	Product *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"product"`
}

type ordersData struct {
	Orders struct {
		Edges []struct {
			Node orderNode `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

type orderNode struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	Customer  *struct {
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
	} `json:"customer"`
	LineItems struct {
		Edges []struct {
			Node lineItemNode `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

type lineItemNode struct {
	Quantity int `json:"quantity"`
	Product  *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"product"`
}

const productQuery = `query ProductExists($id: ID!) {
  product(id: $id) {
    id
    title
  }
}`

const ordersQuery = `query PastOrders($query: String!) {
  orders(first: 50, query: $query) {
    edges {
      node {
        id
        name
        createdAt
        customer {
          firstName
          lastName
        }
        lineItems(first: 10) {
          edges {
            node {
              quantity
              product {
                id
                title
              }
            }
          }
        }
      }
    }
  }
}`

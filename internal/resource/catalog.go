package resource

import (
	"context"
	"net/http"

	"hotelguru/internal/apiclient"
)

// Catalog lists the bookable extra services
type Catalog struct {
	r Requester
}

func NewCatalog(r Requester) *Catalog {
	return &Catalog{r: r}
}

func (c *Catalog) List(ctx context.Context) (*apiclient.Response, error) {
	return c.r.Do(ctx, http.MethodGet, "/service/list", nil, nil)
}

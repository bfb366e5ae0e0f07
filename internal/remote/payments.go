package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ListPayments returns the payments of a reference month ("Outubro"), or all when month is empty.
func (c *Client) ListPayments(ctx context.Context, month string) ([]Payment, error) {
	var query url.Values
	if month != "" {
		query = url.Values{"mes": {month}}
	}
	var payments []Payment
	err := c.do(ctx, request{method: http.MethodGet, path: "/pagamentos", query: query, resource: "pagamentos"}, &payments)
	return payments, err
}

func (c *Client) CreatePayment(ctx context.Context, in PaymentInput) (*Payment, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var payment Payment
	if err := c.do(ctx, request{method: http.MethodPost, path: "/pagamentos", body: body, resource: "pagamentos"}, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) UpdatePayment(ctx context.Context, id int, in PaymentInput) (*Payment, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var payment Payment
	err = c.do(ctx, request{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/pagamentos/%d", id),
		body:     body,
		resource: "pagamentos",
	}, &payment)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) DeletePayment(ctx context.Context, id int) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/pagamentos/%d", id),
		resource: "pagamentos",
	}, nil)
}

package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"cantinho/internal/schedule"
)

// classBody is the wire form of ClassInput. horarioFim only ever comes from
// schedule.EndTime.
type classBody struct {
	ClassInput
	End string `json:"horarioFim"`
}

func encodeClass(in ClassInput) (classBody, error) {
	end, err := schedule.EndTime(in.Start)
	if err != nil {
		return classBody{}, err
	}
	if in.StudentIDs == nil {
		in.StudentIDs = []int{}
	}
	return classBody{ClassInput: in, End: end}, nil
}

// ListClasses returns the classes of one weekday, or all classes when day is empty.
func (c *Client) ListClasses(ctx context.Context, day schedule.DayOfWeek) ([]Class, error) {
	var query url.Values
	if day != "" {
		query = url.Values{"dia": {string(day)}}
	}
	var classes []Class
	err := c.do(ctx, request{method: http.MethodGet, path: "/aulas", query: query, resource: "aulas"}, &classes)
	return classes, err
}

func (c *Client) CreateClass(ctx context.Context, in ClassInput) (*Class, error) {
	wire, err := encodeClass(in)
	if err != nil {
		return nil, err
	}
	body, err := jsonBody(wire)
	if err != nil {
		return nil, err
	}
	var class Class
	if err := c.do(ctx, request{method: http.MethodPost, path: "/aulas", body: body, resource: "aulas"}, &class); err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *Client) UpdateClass(ctx context.Context, id int, in ClassInput) (*Class, error) {
	wire, err := encodeClass(in)
	if err != nil {
		return nil, err
	}
	body, err := jsonBody(wire)
	if err != nil {
		return nil, err
	}
	var class Class
	err = c.do(ctx, request{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/aulas/%d", id),
		body:     body,
		resource: "aulas",
	}, &class)
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (c *Client) AddStudentToClass(ctx context.Context, classID, studentID int) error {
	return c.do(ctx, request{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/aulas/%d/adicionar-aluno/%d", classID, studentID),
		resource: "aulas",
	}, nil)
}

func (c *Client) RemoveStudentFromClass(ctx context.Context, classID, studentID int) error {
	return c.do(ctx, request{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/aulas/%d/remover-aluno/%d", classID, studentID),
		resource: "aulas",
	}, nil)
}

func (c *Client) DeleteClass(ctx context.Context, id int) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/aulas/%d", id),
		resource: "aulas",
	}, nil)
}

package remote

import (
	"context"
	"fmt"
	"net/http"
)

func (c *Client) ListStudents(ctx context.Context) ([]Student, error) {
	var students []Student
	err := c.do(ctx, request{method: http.MethodGet, path: "/alunos", resource: "alunos"}, &students)
	return students, err
}

func (c *Client) GetStudent(ctx context.Context, id int) (*Student, error) {
	var student Student
	err := c.do(ctx, request{
		method:   http.MethodGet,
		path:     fmt.Sprintf("/alunos/%d", id),
		resource: "alunos",
	}, &student)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (c *Client) CreateStudent(ctx context.Context, in StudentInput) (*Student, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var student Student
	if err := c.do(ctx, request{method: http.MethodPost, path: "/alunos", body: body, resource: "alunos"}, &student); err != nil {
		return nil, err
	}
	return &student, nil
}

func (c *Client) UpdateStudent(ctx context.Context, id int, in StudentUpdate) (*Student, error) {
	body, err := jsonBody(in)
	if err != nil {
		return nil, err
	}
	var student Student
	err = c.do(ctx, request{
		method:   http.MethodPatch,
		path:     fmt.Sprintf("/alunos/%d", id),
		body:     body,
		resource: "alunos",
	}, &student)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

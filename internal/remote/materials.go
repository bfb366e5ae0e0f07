package remote

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
)

func (c *Client) ListMaterials(ctx context.Context) ([]Material, error) {
	var materials []Material
	err := c.do(ctx, request{method: http.MethodGet, path: "/materiais-didaticos", resource: "materiais"}, &materials)
	return materials, err
}

// UploadMaterial posts the file as multipart/form-data with the fields
// titulo, tipo, materiaId and arquivo.
func (c *Client) UploadMaterial(ctx context.Context, up MaterialUpload) (*Material, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"titulo", up.Title},
		{"tipo", string(up.Type)},
		{"materiaId", strconv.Itoa(up.SubjectID)},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return nil, fmt.Errorf("failed to write form field %s: %w", f[0], err)
		}
	}
	part, err := mw.CreateFormFile("arquivo", up.Filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(up.Content); err != nil {
		return nil, fmt.Errorf("failed to write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart body: %w", err)
	}

	var material Material
	err = c.do(ctx, request{
		method:   http.MethodPost,
		path:     "/materiais-didaticos",
		body:     &buf,
		header:   http.Header{"Content-Type": {mw.FormDataContentType()}},
		resource: "materiais",
	}, &material)
	if err != nil {
		return nil, err
	}
	return &material, nil
}

func (c *Client) DeleteMaterial(ctx context.Context, id int) error {
	return c.do(ctx, request{
		method:   http.MethodDelete,
		path:     fmt.Sprintf("/materiais-didaticos/%d", id),
		resource: "materiais",
	}, nil)
}

func (c *Client) ListSubjects(ctx context.Context) ([]Subject, error) {
	var subjects []Subject
	err := c.do(ctx, request{method: http.MethodGet, path: "/materia", resource: "materia"}, &subjects)
	return subjects, err
}

// DownloadURL is the static file URL of a stored material. fileRef may be a
// bare filename or a path ending in one.
func (c *Client) DownloadURL(fileRef string) string {
	return c.baseURL + "/uploads/" + url.PathEscape(path.Base(fileRef))
}

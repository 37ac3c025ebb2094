package transport

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// EncodeMultipart writes the parameter set as a multipart/form-data body and
// returns the body together with the content type carrying the boundary.
func EncodeMultipart(ps ParameterSet) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for _, p := range ps.Params() {
		if p.File != nil {
			filename := p.File.Filename
			if filename == "" {
				filename = "upload"
			}
			part, err := writer.CreateFormFile(p.Name, filename)
			if err != nil {
				return nil, "", fmt.Errorf("failed to create file part %q: %w", p.Name, err)
			}
			if _, err := part.Write(p.File.Content); err != nil {
				return nil, "", fmt.Errorf("failed to write file part %q: %w", p.Name, err)
			}
			continue
		}
		if err := writer.WriteField(p.Name, p.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %q: %w", p.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}

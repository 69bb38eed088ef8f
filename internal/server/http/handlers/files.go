package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PankiTrejd/naracki/internal/domain/model"
	"github.com/PankiTrejd/naracki/internal/server/http/dto"
)

const (
	orderFormField = "order"
	filesFormField = "files"
)

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// readCreateRequest accepts either a JSON body with base64 files or a
// multipart form with an "order" JSON field and "files" parts.
func readCreateRequest(c *gin.Context) (dto.OrderRequest, []model.UploadedFile, error) {
	if !isMultipart(c) {
		var body dto.CreateOrderRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			return dto.OrderRequest{}, nil, err
		}
		files, err := decodeFilePayloads(body.Files)
		return body.Order, files, err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return dto.OrderRequest{}, nil, err
	}
	raw := form.Value[orderFormField]
	if len(raw) == 0 {
		return dto.OrderRequest{}, nil, fmt.Errorf("form field %q is required", orderFormField)
	}
	var req dto.OrderRequest
	if err := json.Unmarshal([]byte(raw[0]), &req); err != nil {
		return dto.OrderRequest{}, nil, err
	}
	files, err := readMultipartFiles(form.File[filesFormField])
	return req, files, err
}

// readFiles reads the files of an attachment upload in either encoding.
func readFiles(c *gin.Context) ([]model.UploadedFile, error) {
	if !isMultipart(c) {
		var body struct {
			Files []dto.FilePayload `json:"files"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, err
		}
		return decodeFilePayloads(body.Files)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	return readMultipartFiles(form.File[filesFormField])
}

func decodeFilePayloads(payloads []dto.FilePayload) ([]model.UploadedFile, error) {
	files := make([]model.UploadedFile, 0, len(payloads))
	for _, p := range payloads {
		data, err := decodeBase64(p.Data)
		if err != nil {
			return nil, fmt.Errorf("file %q: invalid base64 data", p.Name)
		}
		files = append(files, model.UploadedFile{
			Name:        p.Name,
			ContentType: contentType(p.Name, p.Type, data),
			Data:        data,
		})
	}
	return files, nil
}

// decodeBase64 accepts plain base64 and data URLs.
func decodeBase64(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		if i := strings.Index(s, ","); i >= 0 {
			s = s[i+1:]
		}
	}
	return base64.StdEncoding.DecodeString(strings.TrimSpace(s))
}

func readMultipartFiles(headers []*multipart.FileHeader) ([]model.UploadedFile, error) {
	files := make([]model.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		data, err := readMultipartFile(fh)
		if err != nil {
			return nil, fmt.Errorf("file %q: %w", fh.Filename, err)
		}
		files = append(files, model.UploadedFile{
			Name:        fh.Filename,
			ContentType: contentType(fh.Filename, fh.Header.Get("Content-Type"), data),
			Data:        data,
		})
	}
	return files, nil
}

func readMultipartFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func contentType(name, declared string, data []byte) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(data)
}

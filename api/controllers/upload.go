package controllers

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/angelmondragon/campuseats-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/campuseats-backend/pkg/errors"
	"github.com/angelmondragon/campuseats-backend/pkg/storage"
)

const (
	uploadField     = "file"
	msgFileTooLarge = "El archivo supera el tamaño máximo permitido."
)

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && strings.EqualFold(mediaType, "multipart/form-data")
}

func parseMultipart(w http.ResponseWriter, r *http.Request, media config.MediaConfig) error {
	limit := media.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.New(pkgerrors.CodeValidation, msgFileTooLarge)
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
	}
	return nil
}

// readUpload reads the required file field into memory.
func readUpload(w http.ResponseWriter, r *http.Request, media config.MediaConfig) (*storage.Object, error) {
	if err := parseMultipart(w, r, media); err != nil {
		return nil, err
	}
	obj, err := formObject(r, media)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is required").
			WithDetails(map[string]any{"field": uploadField})
	}
	return obj, nil
}

// formObject returns nil when the already-parsed form carries no file.
func formObject(r *http.Request, media config.MediaConfig) (*storage.Object, error) {
	file, header, err := r.FormFile(uploadField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid file field").
			WithDetails(map[string]any{"field": uploadField})
	}
	defer file.Close()

	limit := media.MaxUploadBytes()
	if header.Size > limit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgFileTooLarge)
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read upload")
	}
	if int64(len(data)) > limit {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgFileTooLarge)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &storage.Object{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}, nil
}

func formValue(r *http.Request, key string) *string {
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	value := strings.TrimSpace(values[0])
	return &value
}

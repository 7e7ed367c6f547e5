package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	apperrors "zoo/pkg/errors"
	"zoo/pkg/storage"
)

const (
	MultipartDataField = "data"
	MultipartFileField = "file"
)

// DecodeBody decodes a JSON body, or a multipart form whose "data" field
// carries the JSON document and whose optional "file" field carries an image.
// The returned upload is nil when no file was sent.
func DecodeBody(r *http.Request, dst any, maxMemory int64) (*storage.Upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType != "multipart/form-data" {
		if err := decodeJSON(r.Body, dst); err != nil {
			return nil, err
		}
		return nil, nil
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, apperrors.InvalidInput("invalid multipart form: " + err.Error())
	}

	if data := r.FormValue(MultipartDataField); data != "" {
		if err := decodeJSON(strings.NewReader(data), dst); err != nil {
			return nil, err
		}
	}

	file, header, err := r.FormFile(MultipartFileField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.InvalidInput("invalid file field: " + err.Error())
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		file.Close()
		return nil, apperrors.InvalidInput("file must be an image")
	}

	return &storage.Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Reader:      file,
	}, nil
}

func decodeJSON(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.InvalidInput("request body is empty")
		}
		return apperrors.InvalidInput("invalid JSON body: " + err.Error())
	}
	return nil
}

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/Anggit1/Toko-baju/internal/application/service"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// decodeInput reads a JSON object or a form-encoded body into an Input.
// An empty body decodes to an empty Input.
func decodeInput(w http.ResponseWriter, r *http.Request) (service.Input, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
		}
		input := make(service.Input, len(r.PostForm))
		for key, values := range r.PostForm {
			if len(values) > 0 {
				input[key] = values[0]
			}
		}
		return input, nil
	}

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var input service.Input
	if err := decoder.Decode(&input); err != nil {
		if errors.Is(err, io.EOF) {
			return service.Input{}, nil
		}
		return nil, fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if decoder.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", errInvalidBody)
	}
	if input == nil {
		input = service.Input{}
	}
	return input, nil
}

// Package request decodes and validates engine inputs at the transport
// boundary.
package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dgallion1/coverdoc/internal/document"
)

// TextRequest carries a single text.
type TextRequest struct {
	Text string `json:"text" validate:"nonblank"`
}

// FeedbackRequest carries a feedback report. Normalize cleans particle
// spacing in the extracted sections.
type FeedbackRequest struct {
	Text      string `json:"text" validate:"nonblank"`
	Normalize bool   `json:"normalize,omitempty"`
}

// PageInput is one page of a page-list request. It decodes from either a
// bare JSON string or an object with text and layout hints.
type PageInput struct {
	Text   string               `json:"text"`
	Layout document.LayoutHints `json:"layout"`
}

func (p *PageInput) UnmarshalJSON(data []byte) error {
	if s := bytes.TrimSpace(data); len(s) > 0 && s[0] == '"' {
		return json.Unmarshal(s, &p.Text)
	}
	type plain PageInput
	var v plain
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*p = PageInput(v)
	return nil
}

// PagesRequest carries an ordered page list.
type PagesRequest struct {
	Title string      `json:"title,omitempty"`
	Pages []PageInput `json:"pages" validate:"required,min=1,haspagetext"`
}

// Document converts the request into a Document with pages indexed from 0.
func (r PagesRequest) Document() *document.Document {
	doc := &document.Document{Title: r.Title, Pages: make([]document.Page, len(r.Pages))}
	for i, p := range r.Pages {
		doc.Pages[i] = document.Page{Index: i, Text: p.Text, Layout: p.Layout}
	}
	return doc
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("haspagetext", func(fl validator.FieldLevel) bool {
		pages, ok := fl.Field().Interface().([]PageInput)
		if !ok {
			return false
		}
		for _, p := range pages {
			if strings.TrimSpace(p.Text) != "" {
				return true
			}
		}
		return false
	})
	return v
}

// Validate checks struct tags and reports the first failure as an InputError.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		return &InputError{Message: validationMessage(err)}
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "nonblank", "required":
		return fmt.Sprintf("%s is empty", field)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", field, fe.Param())
	case "haspagetext":
		return "pages contain no text"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// Decode parses JSON into v, rejecting unknown fields and trailing data.
func Decode(data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return &InputError{Message: "empty request body"}
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &InputError{Message: "malformed JSON", Cause: err}
	}
	if dec.More() {
		return &InputError{Message: "malformed JSON", Cause: errors.New("trailing data after JSON value")}
	}
	return nil
}

// ParseText decodes and validates a TextRequest.
func ParseText(data []byte) (TextRequest, error) {
	var req TextRequest
	if err := Decode(data, &req); err != nil {
		return req, err
	}
	return req, Validate(req)
}

// ParseFeedback decodes and validates a FeedbackRequest.
func ParseFeedback(data []byte) (FeedbackRequest, error) {
	var req FeedbackRequest
	if err := Decode(data, &req); err != nil {
		return req, err
	}
	return req, Validate(req)
}

// ParsePages decodes and validates a PagesRequest. A bare JSON array is
// accepted as the page list.
func ParsePages(data []byte) (PagesRequest, error) {
	var req PagesRequest
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		if err := Decode(trimmed, &req.Pages); err != nil {
			return req, err
		}
	} else if err := Decode(data, &req); err != nil {
		return req, err
	}
	return req, Validate(req)
}

// ParsePage decodes and validates a single page.
func ParsePage(data []byte) (document.Page, error) {
	var in PageInput
	if err := Decode(data, &in); err != nil {
		return document.Page{}, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return document.Page{}, &InputError{Message: "text is empty"}
	}
	return document.Page{Text: in.Text, Layout: in.Layout}, nil
}

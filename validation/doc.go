// Package validation checks configuration and request structs.
//
// Struct tags are evaluated with go-playground/validator; failures are
// reported as *Error with one FieldError per field, named by json tag.
//
//	type Service struct {
//	    URL string `json:"url" validate:"required,url"`
//	}
//	if err := validation.Validate(svc); err != nil {
//	    var verr *validation.Error
//	    errors.As(err, &verr) // verr.Fields
//	}
//
// Checks that do not fit a tag are collected with a Validator:
//
//	v := validation.New()
//	v.Required("url", cfg.URL).AbsoluteURL("url", cfg.URL)
//	err := v.Validate()
package validation

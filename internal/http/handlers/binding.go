package handlers

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
)

var registerTagNames sync.Once

// useWireFieldNames makes validator report json/form names instead of Go field names.
func useWireFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	})
}

// bind decodes the request body into dst and turns the first rule violation into
// a field error the response layer can translate.
func bind(c *gin.Context, op string, dst any) error {
	useWireFieldNames()
	err := c.ShouldBind(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domainagg.FieldError(op, "request", "validation.invalid_body")
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return domainagg.FieldError(op, fe.Field(), "validation.required")
	case "email":
		return domainagg.FieldError(op, fe.Field(), "validation.email")
	case "min":
		n, _ := strconv.Atoi(fe.Param())
		if fe.Kind() == reflect.String {
			return domainagg.FieldError(op, fe.Field(), "validation.min_length", n)
		}
		return domainagg.FieldError(op, fe.Field(), "validation.min", n)
	default:
		return domainagg.FieldError(op, fe.Field(), "validation.invalid")
	}
}

package handlers

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"cafe-directory/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// CafeForm is the add/edit cafe form schema.
type CafeForm struct {
	Name         string `form:"name" binding:"required,notblank"`
	Location     string `form:"location" binding:"required,notblank"`
	MapURL       string `form:"map_url" binding:"required,url"`
	ImgURL       string `form:"img_url" binding:"required,url"`
	HasSockets   bool   `form:"has_sockets"`
	HasToilet    bool   `form:"has_toilet"`
	HasWifi      bool   `form:"has_wifi"`
	CanTakeCalls bool   `form:"can_take_calls"`
	Seats        string `form:"seats" binding:"required,notblank"`
	CoffeePrice  string `form:"coffee_price" binding:"required,notblank"`
}

// Fields converts the submitted form into catalog input.
func (f CafeForm) Fields() models.CafeFields {
	return models.CafeFields{
		Name:         f.Name,
		Location:     f.Location,
		MapURL:       f.MapURL,
		ImgURL:       f.ImgURL,
		HasSockets:   f.HasSockets,
		HasToilet:    f.HasToilet,
		HasWifi:      f.HasWifi,
		CanTakeCalls: f.CanTakeCalls,
		Seats:        f.Seats,
		CoffeePrice:  f.CoffeePrice,
	}
}

// cafeFormFrom prefills the edit form from a stored cafe. The stored price
// already carries the currency symbol and is shown as is.
func cafeFormFrom(c *models.Cafe) CafeForm {
	return CafeForm{
		Name:         c.Name,
		Location:     c.Location,
		MapURL:       c.MapURL,
		ImgURL:       c.ImgURL,
		HasSockets:   c.HasSockets,
		HasToilet:    c.HasToilet,
		HasWifi:      c.HasWifi,
		CanTakeCalls: c.CanTakeCalls,
		Seats:        c.Seats,
		CoffeePrice:  c.CoffeePrice,
	}
}

type RegisterForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
	Name     string `form:"name" binding:"required,notblank"`
}

type LoginForm struct {
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required,notblank"`
}

var registerFormNames sync.Once

// useFormFieldNames makes validation errors report the form field name
// instead of the Go struct field name, and registers notblank so input made
// only of whitespace counts as missing.
func useFormFieldNames() {
	registerFormNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("notblank", validators.NotBlank)
	})
}

// formErrorKey collects binding failures that are not tied to one field.
const formErrorKey = "_form"

// fieldErrors maps a binding error to one message per form field.
func fieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[formErrorKey] = "Invalid form submission."
		return out
	}

	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = messageFor(fe)
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "url":
		return "Invalid URL."
	case "email":
		return "Invalid email address."
	default:
		return "Invalid value."
	}
}

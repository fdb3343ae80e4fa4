package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"cafe-directory/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindForm(t *testing.T, values url.Values, dst any) error {
	t.Helper()
	useFormFieldNames()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	c.Request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.ShouldBind(dst)
}

func validCafeValues() url.Values {
	return url.Values{
		"name":           {"Joe's"},
		"location":       {"Town"},
		"map_url":        {"http://x"},
		"img_url":        {"https://example.com/joe.png"},
		"has_wifi":       {"true"},
		"can_take_calls": {"true"},
		"seats":          {"10"},
		"coffee_price":   {"3"},
	}
}

func TestCafeForm_Valid(t *testing.T) {
	var form CafeForm
	require.NoError(t, bindForm(t, validCafeValues(), &form))

	assert.Equal(t, models.CafeFields{
		Name:         "Joe's",
		Location:     "Town",
		MapURL:       "http://x",
		ImgURL:       "https://example.com/joe.png",
		HasWifi:      true,
		CanTakeCalls: true,
		Seats:        "10",
		CoffeePrice:  "3",
	}, form.Fields())
}

func TestCafeForm_FieldErrors(t *testing.T) {
	values := validCafeValues()
	values.Del("name")
	values.Set("map_url", "nope")
	values.Set("img_url", "")
	values.Del("coffee_price")

	var form CafeForm
	err := bindForm(t, values, &form)
	require.Error(t, err)

	errs := fieldErrors(err)
	assert.Equal(t, "This field is required.", errs["name"])
	assert.Equal(t, "Invalid URL.", errs["map_url"])
	assert.Equal(t, "This field is required.", errs["img_url"])
	assert.Equal(t, "This field is required.", errs["coffee_price"])
	assert.NotContains(t, errs, "location")
	assert.NotContains(t, errs, "seats")
}

func TestCafeForm_WhitespaceIsMissing(t *testing.T) {
	values := validCafeValues()
	values.Set("name", "   ")
	values.Set("location", "\t")
	values.Set("seats", " ")
	values.Set("coffee_price", "  ")

	var form CafeForm
	err := bindForm(t, values, &form)
	require.Error(t, err)

	assert.Equal(t, map[string]string{
		"name":         "This field is required.",
		"location":     "This field is required.",
		"seats":        "This field is required.",
		"coffee_price": "This field is required.",
	}, fieldErrors(err))
}

func TestRegisterForm_WhitespaceName(t *testing.T) {
	var form RegisterForm
	err := bindForm(t, url.Values{"email": {"a@b.com"}, "password": {"pw"}, "name": {"  "}}, &form)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"name": "This field is required."}, fieldErrors(err))
}

func TestCafeForm_MalformedCheckbox(t *testing.T) {
	values := validCafeValues()
	values.Set("has_sockets", "on")

	var form CafeForm
	err := bindForm(t, values, &form)
	require.Error(t, err)
	assert.Contains(t, fieldErrors(err), formErrorKey)
}

func TestRegisterForm_Email(t *testing.T) {
	var form RegisterForm
	err := bindForm(t, url.Values{"email": {"ann"}, "password": {"pw"}, "name": {"Ann"}}, &form)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"email": "Invalid email address."}, fieldErrors(err))

	require.NoError(t, bindForm(t, url.Values{"email": {"a@b.com"}, "password": {"pw"}, "name": {"Ann"}}, &form))
}

func TestLoginForm_Required(t *testing.T) {
	var form LoginForm
	err := bindForm(t, url.Values{}, &form)
	require.Error(t, err)

	errs := fieldErrors(err)
	assert.Equal(t, "This field is required.", errs["email"])
	assert.Equal(t, "This field is required.", errs["password"])
}

func TestCafeFormFrom_KeepsStoredPrice(t *testing.T) {
	form := cafeFormFrom(&models.Cafe{Name: "Joe's", HasToilet: true, CoffeePrice: "£3"})
	assert.Equal(t, "Joe's", form.Name)
	assert.True(t, form.HasToilet)
	assert.Equal(t, "£3", form.CoffeePrice)
}

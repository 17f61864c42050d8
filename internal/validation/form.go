package validation

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// FormValues returns the submitted fields of a urlencoded or multipart body.
// Repeated fields keep every value in submission order.
func FormValues(c *fiber.Ctx) (url.Values, error) {
	contentType := strings.ToLower(string(c.Request().Header.ContentType()))

	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid multipart form")
		}
		return url.Values(form.Value), nil
	}

	values, err := url.ParseQuery(string(c.Body()))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid form body")
	}
	return values, nil
}

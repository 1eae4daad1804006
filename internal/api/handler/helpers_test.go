package handler

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/certverify-labs/certverify/internal/api/middleware"
	"github.com/certverify-labs/certverify/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testApp builds a fiber app with the error handler and a fake
// authenticated user injected into the request context.
func testApp(userID uuid.UUID, role domain.Role) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(testLogger()),
	})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, userID)
		c.Locals(middleware.LocalUserRole, role)
		return c.Next()
	})
	return app
}

// multipartRequest builds a multipart request with one or more files in
// the given field plus optional form values.
func multipartRequest(t *testing.T, method, target, field string, files map[string][]byte, values map[string]string) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	for name, data := range files {
		header := make(map[string][]string)
		header["Content-Disposition"] = []string{`form-data; name="` + field + `"; filename="` + name + `"`}
		contentType := "application/pdf"
		if len(data) > 0 && data[0] == 0x89 {
			contentType = "image/png"
		}
		header["Content-Type"] = []string{contentType}

		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}

	for key, value := range values {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

// multipartRequestWithType builds a single-file request with an explicit
// part content type, for exercising file type rejection.
func multipartRequestWithType(t *testing.T, target, filename, contentType string) *http.Request {
	t.Helper()

	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text payload"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, int(5*time.Second/time.Millisecond))
	require.NoError(t, err)
	return resp
}

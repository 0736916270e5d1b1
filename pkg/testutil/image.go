package testutil

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"

	"github.com/wealthfund/backend/pkg/xcontext"
)

// MockContextWithImage attaches a multipart request carrying a small png in
// the form field key.
func MockContextWithImage(ctx context.Context, key string) context.Context {
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	for x := 0; x < 64; x++ {
		img.Set(x, x, color.RGBA{G: 200, A: 255})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+key+`"; filename="avatar.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		panic(err)
	}

	if _, err := part.Write(buf.Bytes()); err != nil {
		panic(err)
	}

	if err := writer.Close(); err != nil {
		panic(err)
	}

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithResponseWriter(ctx, httptest.NewRecorder())
	return ctx
}

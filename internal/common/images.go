package common

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/storage"
	"github.com/wealthfund/backend/pkg/xcontext"
)

type multipartImage struct {
	name string
	mime string
	img  image.Image
}

func readImage(ctx context.Context, key string) (*multipartImage, error) {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	req.Body = http.MaxBytesReader(xcontext.ResponseWriter(ctx), req.Body, xcontext.Configs(ctx).File.MaxSize)
	if err := req.ParseMultipartForm(xcontext.Configs(ctx).File.MaxSize); err != nil {
		return nil, errorx.New(errorx.BadRequest, "Request must be multipart form")
	}

	file, header, err := req.FormFile(key)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Error retrieving the file")
	}
	defer file.Close()

	mime := header.Header.Get("Content-Type")
	img, err := decodeImg(mime, file)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid image: %v", err)
	}

	return &multipartImage{name: header.Filename, mime: mime, img: img}, nil
}

// ProcessAvatar resizes the image in the multipart field key to every
// configured square size and uploads all of them. Responses keep the order of
// File.ImageSizes.
func ProcessAvatar(ctx context.Context, fileStorage storage.Storage, key string) ([]*storage.UploadResponse, error) {
	file, err := readImage(ctx, key)
	if err != nil {
		return nil, err
	}

	sizes := xcontext.Configs(ctx).File.ImageSizes
	objs := make([]*storage.UploadObject, 0, len(sizes))
	prefix := uuid.NewString()
	for _, size := range sizes {
		img := resize.Resize(uint(size), uint(size), file.img, resize.Lanczos2)
		b, err := encodeImg(file.mime, img)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot encode image: %v", err)
			return nil, errorx.Unknown
		}

		objs = append(objs, &storage.UploadObject{
			Prefix:   "avatars",
			FileName: fmt.Sprintf("%s-%dx%d-%s", prefix, size, size, file.name),
			Mime:     file.mime,
			Data:     b,
		})
	}

	resps, err := fileStorage.BulkUpload(ctx, objs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.Unknown
	}

	return resps, nil
}

// ProcessImage uploads the image in the multipart field key under prefix
// without resizing it.
func ProcessImage(
	ctx context.Context, fileStorage storage.Storage, key, prefix string,
) (*storage.UploadResponse, error) {
	file, err := readImage(ctx, key)
	if err != nil {
		return nil, err
	}

	b, err := encodeImg(file.mime, file.img)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot encode image: %v", err)
		return nil, errorx.Unknown
	}

	resp, err := fileStorage.Upload(ctx, &storage.UploadObject{
		Prefix:   prefix,
		FileName: fmt.Sprintf("%s-%s", uuid.NewString(), file.name),
		Mime:     file.mime,
		Data:     b,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upload image: %v", err)
		return nil, errorx.Unknown
	}

	return resp, nil
}

func decodeImg(mime string, data io.Reader) (img image.Image, err error) {
	switch mime {
	case "image/jpeg":
		img, err = jpeg.Decode(data)
	case "image/png", "application/octet-stream":
		img, err = png.Decode(data)
	case "image/gif":
		img, err = gif.Decode(data)
	default:
		return nil, fmt.Errorf("only jpeg, gif or png is accepted")
	}
	return img, err
}

func encodeImg(mime string, img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)

	var err error
	switch mime {
	case "image/jpeg":
		err = jpeg.Encode(buf, img, nil)
	case "image/png", "application/octet-stream":
		err = png.Encode(buf, img)
	case "image/gif":
		err = gif.Encode(buf, img, nil)
	default:
		return nil, fmt.Errorf("only jpeg, gif or png is accepted")
	}
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

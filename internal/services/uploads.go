package services

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/baharkarakas/shelfhub/internal/api/validate"
	"github.com/baharkarakas/shelfhub/internal/storage"
)

// Upload is a file received with a form.
type Upload struct {
	Filename string
	Body     io.Reader
}

// preparedImage is a decoded and resized upload waiting to be stored.
type preparedImage struct {
	name string
	data []byte
}

// prepareImage validates an optional image upload, recording a field error when it does not decode.
func prepareImage(up *Upload, maxSide int, field string, errs validate.Errors) (*preparedImage, error) {
	if up == nil {
		return nil, nil
	}
	data, name, err := storage.PrepareImage(up.Filename, up.Body, maxSide)
	if errors.Is(err, storage.ErrInvalidImage) {
		errs.Add(field, validate.CodeInvalidImage, storage.ErrInvalidImage.Error())
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &preparedImage{name: name, data: data}, nil
}

func storeImage(ctx context.Context, files storage.Files, folder string, img *preparedImage) (string, error) {
	key := storage.NewKey(folder, img.name)
	if _, err := files.Save(ctx, key, bytes.NewReader(img.data)); err != nil {
		return "", err
	}
	return key, nil
}

func storeUpload(ctx context.Context, files storage.Files, folder string, up *Upload) (string, int64, error) {
	key := storage.NewKey(folder, up.Filename)
	n, err := files.Save(ctx, key, up.Body)
	if err != nil {
		return "", 0, err
	}
	return key, n, nil
}

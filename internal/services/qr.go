package services

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

type QRService struct{}

func NewQRService() *QRService {
	return &QRService{}
}

// GeneratePNG renders a QR code PNG for a short URL.
func (s *QRService) GeneratePNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

// GenerateBase64 renders a QR code PNG and returns it base64 encoded for
// inline embedding.
func (s *QRService) GenerateBase64(content string, size int) (string, error) {
	png, err := s.GeneratePNG(content, size)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

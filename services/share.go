package services

import (
	"context"

	"github.com/skip2/go-qrcode"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const qrSize = 320

// ShareURL is the link participants open to claim squares.
func (s *GameService) ShareURL(gameID string) string {
	return s.publicURL + "/game/" + gameID
}

// ShareQRCode renders the game's share link as a PNG.
func (s *GameService) ShareQRCode(ctx context.Context, gameID string) ([]byte, error) {
	if _, err := s.GetGame(ctx, gameID); err != nil {
		return nil, err
	}
	png, err := qrcode.Encode(s.ShareURL(gameID), qrcode.Medium, qrSize)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "render qr code: %v", err)
	}
	return png, nil
}

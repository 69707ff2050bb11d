package services

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"unicode"

	_ "image/jpeg"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/media"
	"github.com/campuslink/campuslink-backend/internal/types"
)

const avatarSize = 512

type AvatarService interface {
	CreateUserAvatar(ctx context.Context, user *types.User) error
	CreateUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error
}

type avatarService struct {
	log      *logger.Logger
	store    *media.LocalStore
	fontFace font.Face
	palette  []color.NRGBA
}

var avatarPalette = []color.NRGBA{
	{R: 0x3B, G: 0x82, B: 0xF6, A: 0xFF},
	{R: 0x10, G: 0xB9, B: 0x81, A: 0xFF},
	{R: 0xF5, G: 0x9E, B: 0x0B, A: 0xFF},
	{R: 0xEF, G: 0x44, B: 0x44, A: 0xFF},
	{R: 0x8B, G: 0x5C, B: 0xF6, A: 0xFF},
	{R: 0xEC, G: 0x48, B: 0x99, A: 0xFF},
	{R: 0x14, G: 0xB8, B: 0xA6, A: 0xFF},
	{R: 0x64, G: 0x74, B: 0x8B, A: 0xFF},
}

func NewAvatarService(baseLog *logger.Logger, store *media.LocalStore) (AvatarService, error) {
	serviceLog := baseLog.With("service", "AvatarService")

	fontPath := strings.TrimSpace(os.Getenv("AVATAR_FONT"))
	if fontPath == "" {
		return nil, fmt.Errorf("env var AVATAR_FONT is empty")
	}
	serviceLog.Info("Loading avatar font", "font", fontPath)
	face, err := loadFontFace(fontPath, 206)
	if err != nil {
		return nil, fmt.Errorf("could not load avatar font: %w", err)
	}

	return &avatarService{
		log:      serviceLog,
		store:    store,
		fontFace: face,
		palette:  avatarPalette,
	}, nil
}

func loadFontFace(path string, points float64) (font.Face, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	parsed, err := truetype.Parse(raw)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(parsed, &truetype.Options{Size: points}), nil
}

func (as *avatarService) CreateUserAvatar(ctx context.Context, user *types.User) error {
	bg := as.colorFor(user)
	user.AvatarColor = fmt.Sprintf("#%02X%02X%02X", bg.R, bg.G, bg.B)

	dc := gg.NewContext(avatarSize, avatarSize)
	dc.DrawCircle(avatarSize/2, avatarSize/2, avatarSize/2)
	dc.Clip()
	dc.SetColor(bg)
	dc.DrawRectangle(0, 0, avatarSize, avatarSize)
	dc.Fill()

	dc.SetFontFace(as.fontFace)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(initialsOf(user), avatarSize/2, avatarSize/2, 0.5, 0.5)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("failed to encode avatar png: %w", err)
	}
	return as.saveAvatar(user, buf.Bytes())
}

func (as *avatarService) CreateUserAvatarFromImage(ctx context.Context, user *types.User, raw []byte) error {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("failed to decode avatar image: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return fmt.Errorf("failed to encode avatar png: %w", err)
	}
	return as.saveAvatar(user, buf.Bytes())
}

func (as *avatarService) saveAvatar(user *types.User, data []byte) error {
	oldKey := strings.TrimSpace(user.AvatarPath)
	key := fmt.Sprintf("user_avatar/%s.png", user.ID)
	if _, err := as.store.Save(key, data); err != nil {
		return fmt.Errorf("failed to store avatar: %w", err)
	}
	user.AvatarPath = key
	if oldKey != "" && oldKey != key {
		if err := as.store.Delete(oldKey); err != nil {
			as.log.Warn("Failed to delete old avatar (ignored)", "old_key", oldKey, "error", err)
		}
	}
	return nil
}

func (as *avatarService) colorFor(user *types.User) color.NRGBA {
	h := fnv.New32a()
	_, _ = h.Write(user.ID[:])
	return as.palette[int(h.Sum32())%len(as.palette)]
}

func initialsOf(user *types.User) string {
	var b strings.Builder
	for _, name := range []string{user.FirstName, user.LastName} {
		for _, r := range name {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	if b.Len() == 0 {
		return "?"
	}
	return b.String()
}

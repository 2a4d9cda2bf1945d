package seed

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	authdomain "github.com/cemcalis/chiptunnig/internal/auth/domain"
	"github.com/cemcalis/chiptunnig/internal/auth/password"
	catalogdomain "github.com/cemcalis/chiptunnig/internal/catalog/domain"
	"github.com/cemcalis/chiptunnig/internal/config"
	ecudomain "github.com/cemcalis/chiptunnig/internal/ecu/domain"
	settingsdomain "github.com/cemcalis/chiptunnig/internal/settings/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EnsureDefaults bootstraps the data a fresh install needs to be
// usable: an approved admin account, the tuning service catalog,
// payment instruction settings and a starter ECU cross-reference.
// Every step is idempotent so restarts are safe.
func EnsureDefaults(db *gorm.DB, cfg config.Config) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureAdmin(ctx, tx, node, cfg); err != nil {
			return err
		}
		if err := ensureServices(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureSettings(ctx, tx); err != nil {
			return err
		}
		return ensureECUs(ctx, tx, node)
	})
}

func ensureAdmin(ctx context.Context, tx *gorm.DB, node *snowflake.Node, cfg config.Config) error {
	var count int64
	if err := tx.WithContext(ctx).
		Model(&authdomain.User{}).
		Where("role = ?", authdomain.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	plain := cfg.BootstrapAdminPassword
	if plain == "" {
		buf := make([]byte, 16)
		if _, err := rand.Read(buf); err != nil {
			return err
		}
		plain = hex.EncodeToString(buf)
		zap.L().Warn("generated bootstrap admin password",
			zap.String("email", cfg.BootstrapAdminEmail),
			zap.String("password", plain))
	}

	hash, err := password.Hash(plain)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &authdomain.User{
		ID:           node.Generate(),
		Email:        cfg.BootstrapAdminEmail,
		PasswordHash: hash,
		Name:         "Portal Admin",
		Role:         authdomain.RoleAdmin,
		Status:       authdomain.StatusApproved,
		ApprovedAt:   &now,
	}
	return tx.WithContext(ctx).Create(admin).Error
}

func ensureServices(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&catalogdomain.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []catalogdomain.Service{
		{Name: "DPF Off", Price: 50, Category: "emisyon"},
		{Name: "EGR Off", Price: 40, Category: "emisyon"},
		{Name: "AdBlue Off", Price: 60, Category: "emisyon"},
		{Name: "Lambda Off", Price: 30, Category: "emisyon"},
		{Name: "Stage 1 Tune", Price: 80, Category: "performans"},
		{Name: "Stage 2 Tune", Price: 120, Category: "performans"},
		{Name: "Pop & Bang", Price: 45, Category: "performans"},
		{Name: "DTC Off", Price: 25, Category: "diger"},
		{Name: "Immo Off", Price: 70, Category: "guvenlik"},
		{Name: "Checksum Correction", Price: 10, Category: "genel"},
	}
	for i := range defaults {
		defaults[i].ID = node.Generate()
		defaults[i].Active = true
	}
	return tx.WithContext(ctx).Create(&defaults).Error
}

func ensureSettings(ctx context.Context, tx *gorm.DB) error {
	defaults := map[string]string{
		settingsdomain.KeyIBAN:          "",
		settingsdomain.KeyAccountHolder: "",
	}
	for key, value := range defaults {
		var count int64
		if err := tx.WithContext(ctx).
			Model(&settingsdomain.Setting{}).
			Where("key = ?", key).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row := settingsdomain.Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
		if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureECUs(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var count int64
	if err := tx.WithContext(ctx).Model(&ecudomain.ECU{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	samples := []ecudomain.ECU{
		{BoschNumber: "0281011234", OEMNumber: "03G906016A", Vehicle: "VW Golf V 1.9 TDI", Price: 120},
		{BoschNumber: "0281015678", OEMNumber: "03L906022B", Vehicle: "Audi A4 2.0 TDI", Price: 150},
		{BoschNumber: "0261S04321", OEMNumber: "7583888", Vehicle: "BMW 320i E90", Notes: "MEV17.2"},
	}
	now := time.Now().UTC()
	for i := range samples {
		samples[i].ID = node.Generate()
		samples[i].CreatedAt = now
		samples[i].UpdatedAt = now
	}
	return tx.WithContext(ctx).Create(&samples).Error
}

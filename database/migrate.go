package database

import (
	"fmt"

	"catalog-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns/unique indexes from model tags)
// - Money column types (NUMERIC(12,2))
// - Basic CHECK constraints (non-negative prices, tax rate range,
//   13-digit barcode values)
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(
			&models.Section{},
			&models.Family{},
			&models.Article{},
			&models.Barcode{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money columns as NUMERIC(12,2) (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE articles ALTER COLUMN purchase_price TYPE numeric(12,2)`,
			`ALTER TABLE articles ALTER COLUMN sale_price     TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'articles'::regclass
					  AND conname  = 'chk_articles_purchase_price_nonneg'
				) THEN
					ALTER TABLE articles
					ADD CONSTRAINT chk_articles_purchase_price_nonneg
					CHECK (purchase_price >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'articles'::regclass
					  AND conname  = 'chk_articles_sale_price_nonneg'
				) THEN
					ALTER TABLE articles
					ADD CONSTRAINT chk_articles_sale_price_nonneg
					CHECK (sale_price >= 0);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'articles'::regclass
					  AND conname  = 'chk_articles_tax_rate_range'
				) THEN
					ALTER TABLE articles
					ADD CONSTRAINT chk_articles_tax_rate_range
					CHECK (tax_rate >= 0 AND tax_rate <= 1);
				END IF;
			END $$;`,
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'barcodes'::regclass
					  AND conname  = 'chk_barcodes_value_13_digits'
				) THEN
					ALTER TABLE barcodes
					ADD CONSTRAINT chk_barcodes_value_13_digits
					CHECK (value ~ '^[0-9]{13}$');
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}

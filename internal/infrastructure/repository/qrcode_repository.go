package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"qrcode-shopify-layer/internal/domain"
	"qrcode-shopify-layer/internal/infrastructure/database"
	"qrcode-shopify-layer/internal/infrastructure/repository/entity"
	"qrcode-shopify-layer/internal/ports"
)

const qrCodeColumns = `id, shop_domain, title, product_id, variant_id, handle, discount_id, discount_code, destination, scans, created_at`

// QRCodeRepository implements ports.QRCodeRepository on the shared relational database
type QRCodeRepository struct {
	db *database.DB
}

var _ ports.QRCodeRepository = (*QRCodeRepository)(nil)

// NewQRCodeRepository creates a new QR code repository
func NewQRCodeRepository(db *database.DB) *QRCodeRepository {
	return &QRCodeRepository{db: db}
}

// Create inserts a QR code with zero scans and returns its id
func (r *QRCodeRepository) Create(ctx context.Context, shop string, fields domain.QRCodeFields) (int64, error) {
	if err := r.db.Wait(ctx); err != nil {
		return 0, domain.NewStoreError("create qr code", err)
	}

	row := entity.QRCodeRowFromFields(shop, fields, time.Now().UTC().Truncate(time.Microsecond))
	query := r.db.Rebind(`
		INSERT INTO qr_codes (
			shop_domain, title, product_id, variant_id, handle,
			discount_id, discount_code, destination, scans, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
		RETURNING id`)

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		row.ShopDomain, row.Title, row.ProductID, row.VariantID, row.Handle,
		row.DiscountID, row.DiscountCode, row.Destination, row.CreatedAt,
	)
	if err != nil {
		return 0, domain.NewStoreError("create qr code", err)
	}
	return id, nil
}

// Update replaces every mutable field of the QR code
func (r *QRCodeRepository) Update(ctx context.Context, id int64, fields domain.QRCodeFields) error {
	if err := r.db.Wait(ctx); err != nil {
		return domain.NewStoreError("update qr code", err)
	}

	query := r.db.Rebind(`
		UPDATE qr_codes SET
			title = ?, product_id = ?, variant_id = ?, handle = ?,
			discount_id = ?, discount_code = ?, destination = ?
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query,
		fields.Title, fields.ProductID, fields.VariantID, fields.Handle,
		fields.DiscountID, fields.DiscountCode, string(fields.Destination), id,
	)
	if err != nil {
		return domain.NewStoreError("update qr code", err)
	}
	return requireAffected(result, "update qr code")
}

// List returns every QR code of the shop, oldest first
func (r *QRCodeRepository) List(ctx context.Context, shop string) ([]*domain.QRCode, error) {
	if err := r.db.Wait(ctx); err != nil {
		return nil, domain.NewStoreError("list qr codes", err)
	}

	var rows []entity.QRCodeRow
	query := r.db.Rebind(`SELECT ` + qrCodeColumns + ` FROM qr_codes WHERE shop_domain = ? ORDER BY id`)
	if err := r.db.SelectContext(ctx, &rows, query, shop); err != nil {
		return nil, domain.NewStoreError("list qr codes", err)
	}

	codes := make([]*domain.QRCode, 0, len(rows))
	for i := range rows {
		codes = append(codes, rows[i].ToDomain())
	}
	return codes, nil
}

// Get returns the QR code with the given id, or nil when none matched
func (r *QRCodeRepository) Get(ctx context.Context, id int64) (*domain.QRCode, error) {
	if err := r.db.Wait(ctx); err != nil {
		return nil, domain.NewStoreError("read qr code", err)
	}

	var row entity.QRCodeRow
	query := r.db.Rebind(`SELECT ` + qrCodeColumns + ` FROM qr_codes WHERE id = ?`)
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("read qr code", err)
	}
	return row.ToDomain(), nil
}

// Delete removes the QR code with the given id
func (r *QRCodeRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.Wait(ctx); err != nil {
		return domain.NewStoreError("delete qr code", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM qr_codes WHERE id = ?`), id)
	if err != nil {
		return domain.NewStoreError("delete qr code", err)
	}
	return requireAffected(result, "delete qr code")
}

// DeleteByShop removes every QR code of the shop
func (r *QRCodeRepository) DeleteByShop(ctx context.Context, shop string) (int64, error) {
	if err := r.db.Wait(ctx); err != nil {
		return 0, domain.NewStoreError("delete qr codes", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM qr_codes WHERE shop_domain = ?`), shop)
	if err != nil {
		return 0, domain.NewStoreError("delete qr codes", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, domain.NewStoreError("delete qr codes", err)
	}
	return n, nil
}

// DeleteByProduct removes every QR code of the shop pointing to productID
func (r *QRCodeRepository) DeleteByProduct(ctx context.Context, shop, productID string) (int64, error) {
	if err := r.db.Wait(ctx); err != nil {
		return 0, domain.NewStoreError("delete qr codes", err)
	}

	query := r.db.Rebind(`DELETE FROM qr_codes WHERE shop_domain = ? AND product_id = ?`)
	result, err := r.db.ExecContext(ctx, query, shop, productID)
	if err != nil {
		return 0, domain.NewStoreError("delete qr codes", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, domain.NewStoreError("delete qr codes", err)
	}
	return n, nil
}

// IncrementScans adds one to the scan counter. The addition is evaluated by the database so
// concurrent scans never lose an update.
func (r *QRCodeRepository) IncrementScans(ctx context.Context, id int64) error {
	if err := r.db.Wait(ctx); err != nil {
		return domain.NewStoreError("increment scans", err)
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE qr_codes SET scans = scans + 1 WHERE id = ?`), id)
	if err != nil {
		return domain.NewStoreError("increment scans", err)
	}
	return requireAffected(result, "increment scans")
}

func requireAffected(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return domain.NewStoreError(op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

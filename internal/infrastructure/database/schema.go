package database

import "fmt"

// Relation names managed by the schema
const (
	QRCodesTable  = "qr_codes"
	SessionsTable = "sessions"
	AccountsTable = "accounts"
)

// Relations lists every relation that must exist before the stores are ready
var Relations = []string{QRCodesTable, SessionsTable, AccountsTable}

// migrations is append-only: the schema version is the number of applied entries.
// Tables use IF NOT EXISTS so a relation that already exists with this layout does not
// abort the migration.
var migrations = []Migration{
	{
		Name: "create_qr_codes",
		Statements: func(d Dialect) []string {
			return []string{
				fmt.Sprintf(`
					CREATE TABLE IF NOT EXISTS %s (
						id            %s,
						shop_domain   VARCHAR(511) NOT NULL,
						title         VARCHAR(511) NOT NULL,
						product_id    VARCHAR(255) NOT NULL,
						variant_id    VARCHAR(255) NOT NULL,
						handle        VARCHAR(255) NOT NULL,
						discount_id   VARCHAR(255) NOT NULL,
						discount_code VARCHAR(255) NOT NULL,
						destination   VARCHAR(255) NOT NULL,
						scans         INTEGER NOT NULL DEFAULT 0,
						created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

						CHECK (destination IN ('product', 'checkout')),
						CHECK (scans >= 0)
					)`, QRCodesTable, d.serialPrimaryKey),
				fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_qr_codes_shop_domain ON %s(shop_domain)`, QRCodesTable),
			}
		},
	},
	{
		Name: "create_sessions",
		Statements: func(d Dialect) []string {
			return []string{
				fmt.Sprintf(`
					CREATE TABLE IF NOT EXISTS %s (
						id                 %s,
						shop_domain        VARCHAR(255) NOT NULL,
						shopify_id         VARCHAR(255) NOT NULL,
						state              VARCHAR(255) NOT NULL,
						is_online          BOOLEAN NOT NULL,
						scope              VARCHAR(1024),
						expires            BIGINT,
						online_access_info TEXT,
						access_token       VARCHAR(255),
						created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`, SessionsTable, d.serialPrimaryKey),
				fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_shopify_id ON %s(shopify_id)`, SessionsTable),
				fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_sessions_shop_domain ON %s(shop_domain)`, SessionsTable),
			}
		},
	},
	{
		Name: "create_accounts",
		Statements: func(d Dialect) []string {
			return []string{
				fmt.Sprintf(`
					CREATE TABLE IF NOT EXISTS %s (
						id                    %s,
						company               VARCHAR(255) NOT NULL DEFAULT '',
						email                 VARCHAR(255) NOT NULL,
						order_count_per_month VARCHAR(16) NOT NULL,
						overview              TEXT NOT NULL DEFAULT '',
						order_average_price   BIGINT NOT NULL DEFAULT 0,
						password_hash         VARCHAR(255) NOT NULL,
						created_at            TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,

						CHECK (order_count_per_month IN ('1', '2', '3')),
						CHECK (order_average_price >= 0)
					)`, AccountsTable, d.serialPrimaryKey),
				fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS idx_accounts_email ON %s(email)`, AccountsTable),
			}
		},
	},
}

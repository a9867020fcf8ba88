package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tenants (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL,
		base_currency CHAR(3) NOT NULL,
		allow_multi_currency BOOLEAN NOT NULL DEFAULT TRUE,
		require_receipt BOOLEAN NOT NULL DEFAULT FALSE,
		max_expense_amount NUMERIC(18, 4) NOT NULL DEFAULT 10000,
		auto_approval_limit NUMERIC(18, 4) NOT NULL DEFAULT 100,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT,
		role TEXT NOT NULL,
		manager_id UUID REFERENCES users(id),
		department TEXT NOT NULL DEFAULT '',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		invitation_token TEXT,
		invitation_expires TIMESTAMPTZ,
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_tenant ON users(tenant_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_manager ON users(manager_id)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_invitation ON users(invitation_token) WHERE invitation_token IS NOT NULL`,

	`CREATE TABLE IF NOT EXISTS approval_rules (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		approvers JSONB NOT NULL,
		sequence_type TEXT NOT NULL,
		min_approval_percentage INTEGER NOT NULL DEFAULT 100,
		conditions JSONB NOT NULL DEFAULT '{}',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		priority INTEGER NOT NULL DEFAULT 0,
		created_by UUID REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_approval_rules_listing ON approval_rules(tenant_id, is_active, priority DESC, created_at DESC)`,

	`CREATE TABLE IF NOT EXISTS expenses (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		submitted_by UUID NOT NULL REFERENCES users(id),
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		date DATE NOT NULL,
		paid_by TEXT NOT NULL,
		original_amount NUMERIC(18, 4) NOT NULL,
		original_currency CHAR(3) NOT NULL,
		base_amount NUMERIC(18, 4) NOT NULL,
		base_currency CHAR(3) NOT NULL,
		exchange_rate NUMERIC(20, 10) NOT NULL,
		receipt JSONB,
		status TEXT NOT NULL,
		workflow JSONB NOT NULL,
		rejection_reason TEXT NOT NULL DEFAULT '',
		approved_by UUID REFERENCES users(id),
		approved_at TIMESTAMPTZ,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_tenant_status ON expenses(tenant_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_submitter ON expenses(submitted_by, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_workflow ON expenses USING GIN ((workflow -> 'approvers') jsonb_path_ops)`,

	`CREATE TABLE IF NOT EXISTS category_mappings (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		tenant_id UUID NOT NULL REFERENCES tenants(id),
		merchant_pattern TEXT NOT NULL,
		category TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_category_mappings_tenant ON category_mappings(tenant_id)`,
}

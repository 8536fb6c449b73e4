package database

const (
	// User queries
	queryInsertUser = `
		INSERT OR IGNORE INTO users (id, username, email, first_name, last_name)
		VALUES (?, ?, ?, ?, ?)`

	queryGetUserById = `
		SELECT id, username, email, first_name, last_name, active, created_at
		FROM users
		WHERE id = ?`

	queryGetUserByUsername = `
		SELECT id, username, email, first_name, last_name, active, created_at
		FROM users
		WHERE username = ?`

	queryGetActiveUsers = `
		SELECT id, username, email, first_name, last_name, active, created_at
		FROM users
		WHERE active = 1
		ORDER BY created_at`

	queryCountActiveUserAccounts = `
		SELECT COUNT(*) FROM accounts WHERE user_id = ? AND active = 1`

	queryDeleteUser = `
		DELETE FROM users WHERE id = ?`

	// Account queries
	queryInsertAccount = `
		INSERT INTO accounts (
			id, user_id, account_name, account_type, opening_balance,
			current_balance, currency, bank_connection_id, external_account_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetAccount = `
		SELECT id, user_id, account_name, account_type, opening_balance,
		       current_balance, currency, active, bank_connection_id,
		       external_account_id, created_at
		FROM accounts
		WHERE id = ?`

	queryGetActiveAccounts = `
		SELECT id, user_id, account_name, account_type, opening_balance,
		       current_balance, currency, active, bank_connection_id,
		       external_account_id, created_at
		FROM accounts
		WHERE active = 1
		ORDER BY created_at DESC`

	querySetAccountActive = `
		UPDATE accounts SET active = ? WHERE id = ?`

	queryUpdateCachedBalance = `
		UPDATE accounts SET current_balance = ? WHERE id = ?`

	queryUpdateOpeningBalance = `
		UPDATE accounts SET opening_balance = ? WHERE id = ?`

	queryCountRecentTransactions = `
		SELECT COUNT(*) FROM transactions WHERE account_id = ? AND date >= ?`

	// Transaction queries
	queryCheckDuplicateTransaction = `
		SELECT id FROM transactions WHERE external_id = ? AND external_id != '' LIMIT 1`

	queryInsertTransaction = `
		INSERT INTO transactions (
			id, external_id, date, description, amount, category_id,
			source_id, source_type, raw_data, account_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTransactionAmounts = `
		SELECT amount FROM transactions WHERE account_id = ?`

	queryGetAccountTransactions = `
		SELECT id, external_id, date, description, amount, category_id,
		       source_id, source_type, raw_data, account_id, created_at, updated_at
		FROM transactions
		WHERE account_id = ?
		ORDER BY date DESC, created_at DESC
		LIMIT ? OFFSET ?`

	queryGetTransactionDescription = `
		SELECT description FROM transactions WHERE id = ?`

	queryUpdateTransactionCategory = `
		UPDATE transactions SET category_id = ?, updated_at = ? WHERE id = ?`

	queryUpdateCategoryByDescription = `
		UPDATE transactions SET category_id = ?, updated_at = ? WHERE description = ?`

	// Source queries
	queryInsertSourceIgnore = `
		INSERT OR IGNORE INTO sources (id, name, type) VALUES (?, ?, ?)`

	queryGetSourceByType = `
		SELECT id, name, type, active, created_at
		FROM sources
		WHERE type = ?`

	// Category queries
	queryInsertCategory = `
		INSERT INTO categories (
			id, name, type, color, parent_id, description, monthly_budget, is_recurring
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetCategories = `
		SELECT id, name, type, color, parent_id, description, monthly_budget,
		       is_recurring, created_at
		FROM categories
		ORDER BY type, name`

	queryCountCategoryTransactions = `
		SELECT COUNT(*) FROM transactions WHERE category_id = ?`

	queryCountCategoryById = `
		SELECT COUNT(*) FROM categories WHERE id = ?`

	queryCountSubcategories = `
		SELECT COUNT(*) FROM categories WHERE parent_id = ?`

	queryDeleteCategory = `
		DELETE FROM categories WHERE id = ?`

	// Recurring pattern queries
	queryListRecurringPatterns = `
		SELECT id, description_norm, amount, avg_interval_days, last_date,
		       occurrences, confidence, category_id, is_active
		FROM recurring_patterns
		WHERE is_active = 1
		ORDER BY occurrences DESC`
)

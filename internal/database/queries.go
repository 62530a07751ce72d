package database

const (
	// Account queries
	queryGetAccount = `
		SELECT id, name, currency, joint_account, created_at, updated_at
		FROM accounts
		WHERE name_key = ?`

	queryInsertAccount = `
		INSERT OR IGNORE INTO accounts (id, name, name_key) VALUES (?, ?, ?)`

	queryUpdateAccount = `
		UPDATE accounts
		SET name = ?, currency = ?, joint_account = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name_key = ?`

	queryListAccounts = `
		SELECT id, name, currency, joint_account, created_at, updated_at
		FROM accounts
		ORDER BY name_key`

	// Joint account queries
	queryGetJointAccount = `
		SELECT id, name, currency, created_at, updated_at
		FROM joint_accounts
		WHERE name_key = ?`

	queryInsertJointAccount = `
		INSERT INTO joint_accounts (id, name, name_key, currency) VALUES (?, ?, ?, ?)`

	queryUpdateJointAccount = `
		UPDATE joint_accounts
		SET currency = ?, updated_at = CURRENT_TIMESTAMP
		WHERE name_key = ?`

	queryListJointAccounts = `
		SELECT id, name, currency, created_at, updated_at
		FROM joint_accounts
		ORDER BY name_key`

	// Joint member queries
	queryGetJointMembers = `
		SELECT account_name
		FROM joint_members
		WHERE joint_key = ?
		ORDER BY position`

	queryDeleteJointMembers = `
		DELETE FROM joint_members WHERE joint_key = ?`

	queryInsertJointMember = `
		INSERT INTO joint_members (joint_key, account_key, account_name, position)
		VALUES (?, ?, ?, ?)`
)

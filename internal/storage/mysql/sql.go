package mysql

const upsertSessionSQL = `
INSERT INTO sessions
  (id, state, expires_at)
VALUES
  (?, ?, ?)
ON DUPLICATE KEY UPDATE
  state      = VALUES(state),
  expires_at = VALUES(expires_at)
`

// Expired rows are invisible to reads even before the janitor removes them.
const getSessionSQL = `
SELECT state
FROM sessions
WHERE id = ? AND expires_at > ?
`

const deleteSessionSQL = `DELETE FROM sessions WHERE id = ?`

const purgeExpiredSQL = `DELETE FROM sessions WHERE expires_at <= ?`

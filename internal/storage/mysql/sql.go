package mysql

const upsertAppSQL = `
INSERT INTO apps (id, name)
VALUES (?, ?)
ON DUPLICATE KEY UPDATE
  name       = VALUES(name),
  updated_at = CURRENT_TIMESTAMP
`

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n  (id, app_id, positive, hours_played, helpful_votes, free_product, `text`, created_at)\nVALUES "

// Playtime and votes move over time; text and creation date do not.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  hours_played  = VALUES(hours_played),\n" +
	"  helpful_votes = VALUES(helpful_votes),\n" +
	"  seen_at       = CURRENT_TIMESTAMP\n"

const insertSnapshotSQL = `
INSERT INTO report_snapshots (id, app_id, app_name, requested, markdown, payload, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const insertMissSQL = `
INSERT INTO ingest_misses (query, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getSnapshotSQL = `
SELECT id, app_id, app_name, requested, markdown, payload, created_at
FROM report_snapshots
WHERE id = ?
`

const listReviewsSQL = `
SELECT id, positive, hours_played, helpful_votes, free_product, ` + "`text`" + `, created_at
FROM reviews
WHERE app_id = ?
ORDER BY helpful_votes DESC, id
LIMIT ?
`

package mysql

const insertServiceSQL = `
INSERT INTO services
  (email, category, title, description, price, image_url)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const getServiceSQL = `
SELECT id, email, category, title, description, price, image_url, review_count, created_at
FROM services
WHERE id = ?
`

const deleteServiceSQL = `DELETE FROM services WHERE id = ?`

// One idempotent expression: creates the counter at 1 when it is still NULL,
// increments otherwise. Zero rows affected means the service row is gone.
const bumpReviewCountSQL = `
UPDATE services
SET review_count = COALESCE(review_count, 0) + 1
WHERE id = ?
`

const dropReviewCountSQL = `
UPDATE services
SET review_count = GREATEST(COALESCE(review_count, 0) - 1, 0)
WHERE id = ?
`

const insertReviewSQL = `
INSERT INTO reviews
  (service_id, email, rating, title, ` + "`text`" + `)
VALUES
  (?, ?, ?, ?, ?)
`

const getReviewSQL = `
SELECT id, service_id, email, rating, title, ` + "`text`" + `, created_at
FROM reviews
WHERE id = ?
`

const deleteReviewSQL = `DELETE FROM reviews WHERE id = ?`

// Note: `text` is reserved; keep it quoted everywhere.
const listReviewsPrefix = "SELECT id, service_id, email, rating, title, `text`, created_at\nFROM reviews"

const listServicesPrefix = `
SELECT id, email, category, title, description, price, image_url, review_count, created_at
FROM services`

package mysql

const upsertPropertySQL = `
INSERT INTO properties
  (id, name, location, address, lat, lng, type, bedrooms, bathrooms, guests, price, description, images, amenities, policies)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name        = VALUES(name),
  location    = VALUES(location),
  address     = VALUES(address),
  lat         = VALUES(lat),
  lng         = VALUES(lng),
  type        = VALUES(type),
  bedrooms    = VALUES(bedrooms),
  bathrooms   = VALUES(bathrooms),
  guests      = VALUES(guests),
  price       = VALUES(price),
  description = VALUES(description),
  images      = VALUES(images),
  amenities   = VALUES(amenities),
  policies    = VALUES(policies),
  updated_at  = CURRENT_TIMESTAMP
`

const insertReviewsPrefix = "INSERT INTO reviews\n" +
	"  (id, property_id, listing_name, reviewer_name, rating, categories, public_review, submitted_at, channel, is_approved, is_flagged, response)\nVALUES "

// Moderation columns keep their stored value on re-import; only review
// content refreshes.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  listing_name  = VALUES(listing_name),\n" +
	"  reviewer_name = VALUES(reviewer_name),\n" +
	"  rating        = VALUES(rating),\n" +
	"  categories    = VALUES(categories),\n" +
	"  public_review = VALUES(public_review),\n" +
	"  submitted_at  = VALUES(submitted_at),\n" +
	"  channel       = VALUES(channel)\n"

const updateReviewSQL = `
UPDATE reviews SET
  is_approved = COALESCE(?, is_approved),
  is_flagged  = COALESCE(?, is_flagged),
  response    = COALESCE(?, response)
WHERE id = ?
`

const reviewExistsSQL = `SELECT EXISTS(SELECT 1 FROM reviews WHERE id = ?)`

const selectReviewsSQL = `
SELECT id, property_id, listing_name, reviewer_name, rating, categories,
       public_review, submitted_at, channel, is_approved, is_flagged, response
FROM reviews
ORDER BY id
`

const selectPropertiesSQL = `
SELECT id, name, location, address, lat, lng, type, bedrooms, bathrooms,
       guests, price, description, images, amenities, policies
FROM properties
ORDER BY id
`

// Trend aggregates live in a single-row document table fed by the analytics
// job.
const selectTrendsSQL = `SELECT doc FROM trends WHERE id = 1`

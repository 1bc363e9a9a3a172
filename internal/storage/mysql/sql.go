package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, source, name, description, stars, lat, lon, country, city, address_raw,
   amenities, images, price_per_night, currency, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  description     = VALUES(description),
  stars           = VALUES(stars),
  lat             = VALUES(lat),
  lon             = VALUES(lon),
  country         = VALUES(country),
  city            = VALUES(city),
  address_raw     = VALUES(address_raw),
  amenities       = VALUES(amenities),
  images          = VALUES(images),
  price_per_night = COALESCE(VALUES(price_per_night), hotels.price_per_night),
  currency        = COALESCE(VALUES(currency), hotels.currency),
  raw             = VALUES(raw),
  updated_at      = CURRENT_TIMESTAMP
`

const insertHotelSQL = `
INSERT INTO hotels
  (source, name, description, stars, lat, lon, country, city, address_raw,
   amenities, images, price_per_night, currency, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
`

const insertMissSQL = `
INSERT INTO ingest_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE http_status = VALUES(http_status), seen_at = CURRENT_TIMESTAMP
`

const hotelColumns = `
  id, source, name, description, stars, lat, lon, country, city, address_raw,
  amenities, images, price_per_night, currency`

const getHotelSQL = `SELECT` + hotelColumns + ` FROM hotels WHERE id = ?`

const insertExperienceSQL = `
INSERT INTO experiences
  (author_id, author_name, title, description, location, city, country, lat, lon, images, season, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const experienceColumns = `
  id, author_id, author_name, title, description, location, city, country, lat, lon,
  images, season, created_at`

// Appends in place so concurrent uploads cannot overwrite each other; the
// length guard makes the image limit part of the same statement.
const appendExperienceImageSQL = `
UPDATE experiences SET images = JSON_ARRAY_APPEND(images, '$', ?)
WHERE id = ? AND JSON_LENGTH(images) < ?`

const insertPromotionSQL = `
INSERT INTO promotions
  (business_name, kind, title, description, city, country, url, contact_email, images,
   status, starts_at, ends_at, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const promotionColumns = `
  id, business_name, kind, title, description, city, country, url, contact_email, images,
  status, starts_at, ends_at, created_at`

// Compare-and-set on status so concurrent moderators cannot both win.
const updatePromotionStatusSQL = `UPDATE promotions SET status = ? WHERE id = ? AND status = ?`

const listDestinationsSQL = `
SELECT id, name, city, country, lat, lon, tags, best_seasons
FROM destinations
ORDER BY id`

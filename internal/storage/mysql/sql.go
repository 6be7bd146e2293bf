package mysql

// Mirrors migrations/001_restaurants.sql so a fresh database works without a migration step.
const createTableSQL = `
CREATE TABLE IF NOT EXISTS restaurants (
  position   INT          NOT NULL,
  id         VARCHAR(64)  NOT NULL,
  slug       VARCHAR(191) NOT NULL,
  doc        JSON         NOT NULL,
  updated_at TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
  PRIMARY KEY (id),
  UNIQUE KEY uq_restaurants_slug (slug),
  KEY idx_restaurants_position (position)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4
`

const selectAllSQL = `SELECT id, doc FROM restaurants ORDER BY position ASC`

const deleteAllSQL = `DELETE FROM restaurants`

const insertPrefixSQL = "INSERT INTO restaurants\n  (position, id, slug, doc)\nVALUES "

// rows per INSERT statement; keeps the placeholder count well under the server limit
const insertBatch = 200

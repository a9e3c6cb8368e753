package store

import "github.com/marcomd/metricmind/schema"

// createTableQueries returns the CREATE TABLE statements for the backend.
func createTableQueries(backend schema.DatabaseBackend) []string {
	switch backend {
	case schema.MySQLBackend:
		return []string{`
			CREATE TABLE IF NOT EXISTS repositories (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(255) NOT NULL UNIQUE,
				url TEXT,
				description TEXT,
				last_extracted_at DATETIME(6)
			);
		`, `
			CREATE TABLE IF NOT EXISTS commits (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				repository_id BIGINT NOT NULL,
				hash VARCHAR(64) NOT NULL,
				author_name VARCHAR(255) NOT NULL,
				author_email VARCHAR(255) NOT NULL,
				subject TEXT NOT NULL,
				body TEXT,
				lines_added INT NOT NULL DEFAULT 0,
				lines_deleted INT NOT NULL DEFAULT 0,
				files_changed INT NOT NULL DEFAULT 0,
				commit_date DATETIME(6) NOT NULL,
				weight INT NOT NULL DEFAULT 100,
				ai_tools TEXT,
				category VARCHAR(64),
				ai_confidence INT,
				UNIQUE KEY uniq_repo_hash (repository_id, hash),
				CONSTRAINT fk_commit_repository FOREIGN KEY (repository_id)
					REFERENCES repositories(id) ON DELETE CASCADE,
				CONSTRAINT chk_weight CHECK (weight BETWEEN 0 AND 100),
				CONSTRAINT chk_ai_confidence CHECK (ai_confidence BETWEEN 0 AND 100)
			);
		`, `
			CREATE TABLE IF NOT EXISTS categories (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				name VARCHAR(64) NOT NULL UNIQUE,
				description TEXT,
				usage_count INT NOT NULL DEFAULT 0
			);
		`}

	case schema.PostgreSQLBackend:
		return []string{`
			CREATE TABLE IF NOT EXISTS repositories (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				url TEXT,
				description TEXT,
				last_extracted_at TIMESTAMPTZ
			);
		`, `
			CREATE TABLE IF NOT EXISTS commits (
				id BIGSERIAL PRIMARY KEY,
				repository_id BIGINT NOT NULL REFERENCES repositories(id) ON DELETE CASCADE,
				hash TEXT NOT NULL,
				author_name TEXT NOT NULL,
				author_email TEXT NOT NULL,
				subject TEXT NOT NULL,
				body TEXT,
				lines_added INT NOT NULL DEFAULT 0,
				lines_deleted INT NOT NULL DEFAULT 0,
				files_changed INT NOT NULL DEFAULT 0,
				commit_date TIMESTAMPTZ NOT NULL,
				weight INT NOT NULL DEFAULT 100 CHECK (weight BETWEEN 0 AND 100),
				ai_tools TEXT,
				category TEXT,
				ai_confidence INT CHECK (ai_confidence BETWEEN 0 AND 100),
				UNIQUE (repository_id, hash)
			);
		`, `
			CREATE TABLE IF NOT EXISTS categories (
				id BIGSERIAL PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				description TEXT,
				usage_count INT NOT NULL DEFAULT 0
			);
		`}

	default: // SQLite
		return []string{`
			CREATE TABLE IF NOT EXISTS repositories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				url TEXT,
				description TEXT,
				last_extracted_at TIMESTAMP
			);
		`, `
			CREATE TABLE IF NOT EXISTS commits (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				repository_id INTEGER NOT NULL REFERENCES repositories(id) ON DELETE CASCADE,
				hash TEXT NOT NULL,
				author_name TEXT NOT NULL,
				author_email TEXT NOT NULL,
				subject TEXT NOT NULL,
				body TEXT,
				lines_added INTEGER NOT NULL DEFAULT 0,
				lines_deleted INTEGER NOT NULL DEFAULT 0,
				files_changed INTEGER NOT NULL DEFAULT 0,
				commit_date TIMESTAMP NOT NULL,
				weight INTEGER NOT NULL DEFAULT 100 CHECK (weight BETWEEN 0 AND 100),
				ai_tools TEXT,
				category TEXT,
				ai_confidence INTEGER CHECK (ai_confidence BETWEEN 0 AND 100),
				UNIQUE (repository_id, hash)
			);
		`, `
			CREATE TABLE IF NOT EXISTS categories (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL UNIQUE,
				description TEXT,
				usage_count INTEGER NOT NULL DEFAULT 0
			);
		`}
	}
}

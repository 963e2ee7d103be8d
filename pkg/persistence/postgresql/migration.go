package postgresql

import (
	"database/sql"
	"log/slog"

	"github.com/poib/testflow/pkg/persistence/sqlbase"
)

func sqlbaseManager(logger *slog.Logger, db *sql.DB) *sqlbase.MigrationManager {
	return sqlbase.NewMigrationManager(logger, db, migrations())
}

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE favorites (
				project_id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				pinned_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_favorites_pinned_at ON favorites(pinned_at);

			CREATE TABLE projects (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				bpmn_xml TEXT NOT NULL DEFAULT '',
				openapi_json TEXT NOT NULL DEFAULT '',
				puml_content TEXT,
				mapping_result JSONB
			);

			CREATE INDEX idx_projects_name ON projects(name);
		`,
	}
}

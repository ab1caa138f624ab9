package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const migrationsDir = "../../migrations"

func TestMigrationFilesExist(t *testing.T) {
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		t.Fatal("Migrations directory does not exist")
	}

	expectedMigrations := []string{
		"00001_create_categories_table.sql",
		"00002_create_products_table.sql",
		"00003_create_purchases_table.sql",
		"00004_create_updated_at_trigger.sql",
	}

	for _, migration := range expectedMigrations {
		path := filepath.Join(migrationsDir, migration)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			t.Errorf("Migration file %s does not exist", migration)
		}
	}
}

func TestMigrationFilesHaveUpAndDown(t *testing.T) {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("Failed to read migrations directory: %v", err)
	}

	sqlFileCount := 0
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".sql") {
			continue
		}

		sqlFileCount++
		content, err := os.ReadFile(filepath.Join(migrationsDir, file.Name()))
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", file.Name(), err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "-- +goose Up") {
			t.Errorf("Migration file %s missing '-- +goose Up' directive", file.Name())
		}

		if !strings.Contains(contentStr, "-- +goose Down") {
			t.Errorf("Migration file %s missing '-- +goose Down' directive", file.Name())
		}
	}

	if sqlFileCount == 0 {
		t.Error("No SQL migration files found")
	}
}

func TestMigrationFilesCreateExpectedTables(t *testing.T) {
	expectedTables := map[string]string{
		"categories": "00001_create_categories_table.sql",
		"products":   "00002_create_products_table.sql",
		"purchases":  "00003_create_purchases_table.sql",
	}

	for tableName, migrationFile := range expectedTables {
		path := filepath.Join(migrationsDir, migrationFile)
		content, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("Failed to read migration file %s: %v", migrationFile, err)
			continue
		}

		contentStr := string(content)

		if !strings.Contains(contentStr, "CREATE TABLE "+tableName) {
			t.Errorf("Migration file %s does not create table %s", migrationFile, tableName)
		}

		if !strings.Contains(contentStr, "DROP TABLE "+tableName) {
			t.Errorf("Migration file %s does not drop table %s in down section", migrationFile, tableName)
		}
	}
}

func TestCategoriesTableHasUniqueName(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00001_create_categories_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read categories migration: %v", err)
	}

	if !strings.Contains(string(content), "name VARCHAR(100) UNIQUE NOT NULL") {
		t.Error("Categories table missing unique constraint on name")
	}
}

func TestProductsTableHasRequiredColumns(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00002_create_products_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read products migration: %v", err)
	}

	contentStr := string(content)
	requiredColumns := []string{
		"id UUID PRIMARY KEY",
		"name VARCHAR",
		"description TEXT",
		"brand VARCHAR",
		"category_id UUID",
		"created_at TIMESTAMP",
		"updated_at TIMESTAMP",
	}

	for _, column := range requiredColumns {
		if !strings.Contains(contentStr, column) {
			t.Errorf("Products table missing required column definition: %s", column)
		}
	}

	if !strings.Contains(contentStr, "FOREIGN KEY (category_id)") {
		t.Error("Products table missing foreign key constraint to categories")
	}

	// Deleting a category must orphan products, not delete them
	if !strings.Contains(contentStr, "ON DELETE SET NULL") {
		t.Error("Products category foreign key must use ON DELETE SET NULL")
	}
}

func TestPurchasesTableHasPriceCheck(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00003_create_purchases_table.sql"))
	if err != nil {
		t.Fatalf("Failed to read purchases migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "CHECK (price > 0)") {
		t.Error("Purchases table missing positive price check constraint")
	}

	if !strings.Contains(contentStr, "FOREIGN KEY (product_id)") {
		t.Error("Purchases table missing foreign key constraint to products")
	}

	if !strings.Contains(contentStr, "purchase_date DATE NOT NULL") {
		t.Error("Purchases table missing purchase_date column")
	}
}

func TestTriggerMigrationWrapsFunctionInStatementDirectives(t *testing.T) {
	content, err := os.ReadFile(filepath.Join(migrationsDir, "00004_create_updated_at_trigger.sql"))
	if err != nil {
		t.Fatalf("Failed to read trigger migration: %v", err)
	}

	contentStr := string(content)

	if !strings.Contains(contentStr, "-- +goose StatementBegin") ||
		!strings.Contains(contentStr, "-- +goose StatementEnd") {
		t.Error("Trigger migration must wrap the plpgsql function in StatementBegin/StatementEnd")
	}

	for _, table := range []string{"products", "purchases"} {
		if !strings.Contains(contentStr, "BEFORE UPDATE ON "+table) {
			t.Errorf("Missing updated_at trigger on %s", table)
		}
	}
}

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/aniket-charjan/ui-diff-detector/pkg/types"
)

// Comparison is one stored comparison row. Elements and Differences are
// populated only by GetComparison.
type Comparison struct {
	ID             int64              `json:"id"`
	BaselinePath   string             `json:"baseline_path"`
	ComparisonPath string             `json:"comparison_path"`
	DiffImagePath  string             `json:"diff_image_path"`
	ReportJSON     string             `json:"report_json,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	Elements       []types.UIElement  `json:"elements,omitempty"`
	Differences    []types.Difference `json:"differences,omitempty"`
}

// InsertComparison creates a comparison row for the two uploaded screenshots
// and returns its generated id. The diff image path and report are attached
// later via UpdateComparisonResult.
func (s *Store) InsertComparison(baselinePath, comparisonPath string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.conn.Exec(`
		INSERT INTO comparisons (baseline_path, comparison_path)
		VALUES (?, ?)
	`, baselinePath, comparisonPath)
	if err != nil {
		return 0, fmt.Errorf("failed to insert comparison: %w", err)
	}

	return result.LastInsertId()
}

// UpdateComparisonResult attaches the generated diff image path and the
// report JSON to an existing comparison. A comparison row is mutated exactly
// once, by this call.
func (s *Store) UpdateComparisonResult(id int64, diffImagePath, reportJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.conn.Exec(`
		UPDATE comparisons SET diff_image_path = ?, report_json = ? WHERE id = ?
	`, diffImagePath, reportJSON, id)
	if err != nil {
		return fmt.Errorf("failed to update comparison: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("comparison %d not found", id)
	}
	return nil
}

// InsertUIElements stores the UI elements detected for a comparison and
// returns their generated ids in input order.
func (s *Store) InsertUIElements(comparisonID int64, elements []types.UIElement) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO ui_elements (comparison_id, screenshot, element_type, description, x1, y1, x2, y2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare element statement: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(elements))
	for _, el := range elements {
		box := boxOrZero(el.Coordinates)
		result, err := stmt.Exec(comparisonID, el.Screenshot, el.ElementType, el.Description,
			box.X1, box.Y1, box.X2, box.Y2)
		if err != nil {
			return nil, fmt.Errorf("failed to insert element: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("failed to get element id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ids, nil
}

// InsertDifferences stores the structured differences for a comparison.
func (s *Store) InsertDifferences(comparisonID int64, diffs []types.Difference) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO differences (comparison_id, diff_type, location, description, before_text, after_text, x1, y1, x2, y2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare difference statement: %w", err)
	}
	defer stmt.Close()

	for _, d := range diffs {
		box := boxOrZero(d.Coordinates)
		if d.Coordinates == nil && d.HighlightArea != nil {
			box = *d.HighlightArea
		}
		if _, err := stmt.Exec(comparisonID, d.Type, d.Location, d.Description, d.Before, d.After,
			box.X1, box.Y1, box.X2, box.Y2); err != nil {
			return fmt.Errorf("failed to insert difference: %w", err)
		}
	}

	return tx.Commit()
}

// GetComparison retrieves a comparison by id, joined with its elements and
// differences. Returns nil when no such row exists.
func (s *Store) GetComparison(id int64) (*Comparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var c Comparison
	err := s.conn.QueryRow(`
		SELECT id, baseline_path, comparison_path, diff_image_path, report_json, created_at
		FROM comparisons WHERE id = ?
	`, id).Scan(&c.ID, &c.BaselinePath, &c.ComparisonPath, &c.DiffImagePath, &c.ReportJSON, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comparison: %w", err)
	}

	if c.Elements, err = s.getElements(id); err != nil {
		return nil, err
	}
	if c.Differences, err = s.getDifferences(id); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComparisons returns all comparisons ordered by creation time
// descending, without their child rows.
func (s *Store) ListComparisons() ([]Comparison, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.conn.Query(`
		SELECT id, baseline_path, comparison_path, diff_image_path, created_at
		FROM comparisons ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query comparisons: %w", err)
	}
	defer rows.Close()

	var comparisons []Comparison
	for rows.Next() {
		var c Comparison
		if err := rows.Scan(&c.ID, &c.BaselinePath, &c.ComparisonPath, &c.DiffImagePath, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comparison: %w", err)
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, rows.Err()
}

// DeleteComparison removes a comparison; its elements and differences
// cascade-delete with it.
func (s *Store) DeleteComparison(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.conn.Exec(`DELETE FROM comparisons WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete comparison: %w", err)
	}
	return nil
}

func (s *Store) getElements(comparisonID int64) ([]types.UIElement, error) {
	rows, err := s.conn.Query(`
		SELECT screenshot, element_type, description, x1, y1, x2, y2
		FROM ui_elements WHERE comparison_id = ? ORDER BY id
	`, comparisonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query elements: %w", err)
	}
	defer rows.Close()

	var elements []types.UIElement
	for rows.Next() {
		var el types.UIElement
		var box types.BoundingBox
		if err := rows.Scan(&el.Screenshot, &el.ElementType, &el.Description,
			&box.X1, &box.Y1, &box.X2, &box.Y2); err != nil {
			return nil, fmt.Errorf("failed to scan element: %w", err)
		}
		el.Coordinates = &box
		elements = append(elements, el)
	}
	return elements, rows.Err()
}

func (s *Store) getDifferences(comparisonID int64) ([]types.Difference, error) {
	rows, err := s.conn.Query(`
		SELECT diff_type, location, description, before_text, after_text, x1, y1, x2, y2
		FROM differences WHERE comparison_id = ? ORDER BY id
	`, comparisonID)
	if err != nil {
		return nil, fmt.Errorf("failed to query differences: %w", err)
	}
	defer rows.Close()

	var diffs []types.Difference
	for rows.Next() {
		var d types.Difference
		var box types.BoundingBox
		if err := rows.Scan(&d.Type, &d.Location, &d.Description, &d.Before, &d.After,
			&box.X1, &box.Y1, &box.X2, &box.Y2); err != nil {
			return nil, fmt.Errorf("failed to scan difference: %w", err)
		}
		d.Coordinates = &box
		diffs = append(diffs, d)
	}
	return diffs, rows.Err()
}

func boxOrZero(b *types.BoundingBox) types.BoundingBox {
	if b == nil {
		return types.BoundingBox{}
	}
	return *b
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/aniket-charjan/ui-diff-detector/internal/config"
	"github.com/aniket-charjan/ui-diff-detector/internal/store"
	"github.com/aniket-charjan/ui-diff-detector/internal/utils"
	"github.com/aniket-charjan/ui-diff-detector/pkg/differ"
)

// maxUploadBytes caps one multipart comparison request.
const maxUploadBytes = 32 << 20

// CompareHandler accepts the two-file upload, runs the comparison pipeline
// and persists the outcome. Uploaded files are kept on disk; they are the
// stored baseline/comparison paths of the comparison row.
func CompareHandler(d *differ.Differ, st *store.Store, cfg *config.Config, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			respondError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
			return
		}

		baselinePath, err := saveFormImage(r, "baseline", cfg.UploadsDir)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		comparisonPath, err := saveFormImage(r, "comparison", cfg.UploadsDir)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := d.Compare(r.Context(), baselinePath, comparisonPath)
		if err != nil {
			log.Errorw("comparison pipeline failed", "error", err,
				"baseline", baselinePath, "comparison", comparisonPath)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		id, err := st.InsertComparison(baselinePath, comparisonPath)
		if err != nil {
			log.Errorw("failed to store comparison", "error", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}

		reportJSON, err := json.Marshal(result)
		if err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := st.UpdateComparisonResult(id, result.DiffImagePath, string(reportJSON)); err != nil {
			log.Errorw("failed to attach result", "error", err, "comparison_id", id)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if err := st.InsertDifferences(id, result.Differences); err != nil {
			log.Errorw("failed to store differences", "error", err, "comparison_id", id)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if len(result.UIElements) > 0 {
			if _, err := st.InsertUIElements(id, result.UIElements); err != nil {
				log.Errorw("failed to store ui elements", "error", err, "comparison_id", id)
				respondError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		log.Infow("comparison completed", "comparison_id", id,
			"differences", len(result.Differences), "diff_image", result.DiffImagePath)

		respondSuccess(w, map[string]any{
			"comparison_id":        id,
			"differences":          result.Differences,
			"ui_elements":          result.UIElements,
			"processed_dimensions": result.ProcessedDims,
			"diff_image":           result.DiffImagePath,
			"raw_response":         result.RawResponse,
		})
	}
}

// ListComparisonsHandler returns all stored comparisons, newest first.
func ListComparisonsHandler(st *store.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		comparisons, err := st.ListComparisons()
		if err != nil {
			log.Errorw("failed to list comparisons", "error", err)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if comparisons == nil {
			comparisons = []store.Comparison{}
		}
		respondSuccess(w, map[string]any{"comparisons": comparisons})
	}
}

// ViewComparisonHandler returns one comparison joined with its elements and
// differences.
func ViewComparisonHandler(st *store.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		c, err := st.GetComparison(id)
		if err != nil {
			log.Errorw("failed to get comparison", "error", err, "comparison_id", id)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		if c == nil {
			respondError(w, http.StatusNotFound, "comparison not found")
			return
		}
		respondSuccess(w, map[string]any{"comparison": c})
	}
}

// DeleteComparisonHandler removes a comparison; child rows cascade.
func DeleteComparisonHandler(st *store.Store, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		id, ok := idParam(w, r)
		if !ok {
			return
		}
		if err := st.DeleteComparison(id); err != nil {
			log.Errorw("failed to delete comparison", "error", err, "comparison_id", id)
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondSuccess(w, map[string]any{"deleted": id})
	}
}

// saveFormImage extracts one named file field and persists it under dir.
func saveFormImage(r *http.Request, field, dir string) (string, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return "", errMissingField(field)
	}
	defer file.Close()

	if !utils.IsImageFile(header.Filename) {
		return "", errNotAnImage(field, header.Filename)
	}

	return utils.SaveUpload(dir, header.Filename, file)
}

func errMissingField(field string) error {
	return fmt.Errorf("missing file field %q", field)
}

func errNotAnImage(field, name string) error {
	return fmt.Errorf("field %q: %s is not a supported image file", field, name)
}

func idParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.URL.Query().Get("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "missing or invalid id parameter")
		return 0, false
	}
	return id, true
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-tui/internal/models"
	"github.com/noah-isme/sma-admin-tui/pkg/config"
	appErrors "github.com/noah-isme/sma-admin-tui/pkg/errors"
)

// StudentForm carries the multipart fields for creating or updating a
// student. PhotoPath, when set, attaches the file as profile_pic.
type StudentForm struct {
	StudentID        string
	Name             string
	FatherName       string
	Email            string
	Phone            string
	Phone2           string
	EmergencyContact string
	Gender           string
	DOB              string
	Address          string
	Course           string
	Session          string
	PhotoPath        string
}

// FeeForm carries the payload for creating a fee entry. Date is only sent
// when the status is paid, matching the backend contract.
type FeeForm struct {
	StudentID string
	Status    string
	Amount    float64
	Date      string
}

// Client wraps the school management backend. One method per intent, no
// batching, no retries; callers re-fetch the affected collection after a
// successful mutation.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// New constructs a backend client.
func New(cfg config.APIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// ListStudents fetches the full student directory.
func (c *Client) ListStudents(ctx context.Context) ([]models.Student, error) {
	var students []models.Student
	if err := c.do(ctx, http.MethodGet, "/students", nil, "", &students); err != nil {
		return nil, err
	}
	return students, nil
}

// CreateStudent submits a new student as multipart form data.
func (c *Client) CreateStudent(ctx context.Context, form StudentForm) error {
	body, contentType, err := encodeStudentForm(form)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/submit", body, contentType, nil)
}

// UpdateStudent replaces a student record by its internal id, optionally
// replacing the profile image.
func (c *Client) UpdateStudent(ctx context.Context, id string, form StudentForm) error {
	body, contentType, err := encodeStudentForm(form)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/students/"+id, body, contentType, nil)
}

// DeleteStudent removes a student by its internal id.
func (c *Client) DeleteStudent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/students/"+id, nil, "", nil)
}

// ListFees fetches the fee ledger with current statuses.
func (c *Client) ListFees(ctx context.Context) ([]models.Fee, error) {
	var fees []models.Fee
	if err := c.do(ctx, http.MethodGet, "/fees/all", nil, "", &fees); err != nil {
		return nil, err
	}
	return fees, nil
}

// ListPaidFees fetches fee entries that already have a paid record.
func (c *Client) ListPaidFees(ctx context.Context) ([]models.Fee, error) {
	var fees []models.Fee
	if err := c.do(ctx, http.MethodGet, "/fees/paid", nil, "", &fees); err != nil {
		return nil, err
	}
	return fees, nil
}

// PaymentHistory fetches all payments recorded for a student identifier.
func (c *Client) PaymentHistory(ctx context.Context, studentID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := c.do(ctx, http.MethodGet, "/fees/history/"+studentID, nil, "", &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// AddFee creates a fee entry.
func (c *Client) AddFee(ctx context.Context, form FeeForm) error {
	payload := map[string]interface{}{
		"student_id": form.StudentID,
		"status":     form.Status,
		"amount":     form.Amount,
	}
	if form.Status == models.FeeStatusPaid && form.Date != "" {
		payload["date"] = form.Date
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode fee payload")
	}
	return c.do(ctx, http.MethodPost, "/fees/add", bytes.NewReader(body), "application/json", nil)
}

// MarkPaid records a payment against a student's fee.
func (c *Client) MarkPaid(ctx context.Context, studentID string, amount float64) error {
	body, err := json.Marshal(map[string]interface{}{
		"student_id": studentID,
		"amount":     amount,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode payment payload")
	}
	return c.do(ctx, http.MethodPost, "/fees/pay", bytes.NewReader(body), "application/json", nil)
}

// UpdatePayment modifies an existing payment's amount and date.
func (c *Client) UpdatePayment(ctx context.Context, paymentID string, amount float64, date string) error {
	body, err := json.Marshal(map[string]interface{}{
		"amount": amount,
		"date":   date,
	})
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode payment payload")
	}
	return c.do(ctx, http.MethodPut, "/fees/update/"+paymentID, bytes.NewReader(body), "application/json", nil)
}

// DeletePayment removes a payment by its id.
func (c *Client) DeletePayment(ctx context.Context, paymentID string) error {
	return c.do(ctx, http.MethodDelete, "/fees/delete/"+paymentID, nil, "", nil)
}

// CheckOverdue triggers the backend-side overdue-status recomputation.
func (c *Client) CheckOverdue(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/fees/check_overdue", bytes.NewReader([]byte("{}")), "application/json", nil)
}

// errorPayload mirrors the backend's failure body.
type errorPayload struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	reqID := uuid.NewString()
	req.Header.Set("X-Request-ID", reqID)

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", reqID),
			zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "read response")
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", reqID))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := serverMessage(data)
		if message == "" {
			message = fmt.Sprintf("request failed with status %d", resp.StatusCode)
		}
		return appErrors.New(appErrors.ErrAPI.Code, resp.StatusCode, message)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "decode response")
		}
	}
	return nil
}

func serverMessage(data []byte) string {
	var payload errorPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

func encodeStudentForm(form StudentForm) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"student_id":        form.StudentID,
		"name":              form.Name,
		"father_name":       form.FatherName,
		"email":             form.Email,
		"phone":             form.Phone,
		"phone2":            form.Phone2,
		"emergency_contact": form.EmergencyContact,
		"gender":            form.Gender,
		"dob":               form.DOB,
		"address":           form.Address,
		"course":            form.Course,
		"session":           form.Session,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode student form")
		}
	}

	if form.PhotoPath != "" {
		file, err := os.Open(form.PhotoPath)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "open profile picture")
		}
		defer file.Close() //nolint:errcheck
		part, err := w.CreateFormFile("profile_pic", filepath.Base(form.PhotoPath))
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode profile picture")
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "copy profile picture")
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "finalise student form")
	}
	return buf, w.FormDataContentType(), nil
}

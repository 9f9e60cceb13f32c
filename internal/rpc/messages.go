package rpc

import (
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/shopspring/decimal"
)

// Empty is the request or response of methods that carry nothing.
type Empty struct{}

// Identity

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string   `json:"accessToken"`
	UserID      string   `json:"userId"`
	Username    string   `json:"username"`
	RoleID      string   `json:"roleId"`
	Permissions []string `json:"permissions"`
}

type FirstRunStatusResponse struct {
	Completed bool `json:"completed"`
}

type ResetPasswordRequest struct {
	DeveloperPassword string `json:"developerPassword"`
	Target            string `json:"target"`
	NewPassword       string `json:"newPassword"`
}

type ChangeAdminPasswordRequest struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

type CreateUserRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName,omitempty"`
	RoleID      string `json:"roleId"`
}

type UpdateUserRequest struct {
	ID          string  `json:"id"`
	DisplayName *string `json:"displayName,omitempty"`
	RoleID      *string `json:"roleId,omitempty"`
}

type SetPasswordRequest struct {
	ID       string `json:"id"`
	Password string `json:"password"`
}

type IDRequest struct {
	ID string `json:"id"`
}

type UsersResponse struct {
	Users []models.User `json:"users"`
}

type RolesResponse struct {
	Roles []models.Role `json:"roles"`
}

type RoleRequest struct {
	RoleID string `json:"roleId"`
}

type UpdateRolePermissionsRequest struct {
	RoleID      string   `json:"roleId"`
	Permissions []string `json:"permissions"`
}

type PermissionsResponse struct {
	Permissions []string `json:"permissions"`
}

type UserRequest struct {
	UserID string `json:"userId"`
}

type PermissionGroupsResponse struct {
	Groups []models.PermissionGroup `json:"groups"`
}

// Vehicles

type EntryRequest struct {
	Plate        string `json:"plate"`
	VehicleType  string `json:"vehicleType"`
	Observations string `json:"observations,omitempty"`
	TicketCode   string `json:"ticketCode,omitempty"`
}

type ExitRequest struct {
	TicketCode     string           `json:"ticketCode"`
	PartialPayment *decimal.Decimal `json:"partialPayment,omitempty"`
	PaymentMethod  string           `json:"paymentMethod,omitempty"`
	OverrideCost   *decimal.Decimal `json:"overrideCost,omitempty"`
}

type RemoveRequest struct {
	ID         string `json:"id,omitempty"`
	TicketCode string `json:"ticketCode,omitempty"`
}

type ListVehiclesRequest struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

type TicketRequest struct {
	TicketCode string `json:"ticketCode"`
}

type PlateRequest struct {
	Plate string `json:"plate"`
}

type VehiclesResponse struct {
	Vehicles []models.Vehicle `json:"vehicles"`
}

type DebtorsResponse struct {
	Debtors []models.Debtor `json:"debtors"`
}

type AmountResponse struct {
	Amount decimal.Decimal `json:"amount"`
}

type DebtDetailsResponse struct {
	Details []models.DebtDetail `json:"details"`
}

type SearchPlatesRequest struct {
	Prefix string `json:"prefix"`
}

type PlatesResponse struct {
	Plates []string `json:"plates"`
}

type PlateConflictsResponse struct {
	Conflicts []models.PlateConflict `json:"conflicts"`
}

type ResolveConflictRequest struct {
	Plate  string `json:"plate"`
	KeepID string `json:"keepId"`
}

// Tariffs

type VehicleTypeRequest struct {
	VehicleType string `json:"vehicleType"`
}

type ListTariffsRequest struct {
	Search string `json:"search,omitempty"`
}

type TariffsResponse struct {
	Tariffs []models.Tariff `json:"tariffs"`
}

type TariffRequest struct {
	VehicleType         string          `json:"vehicleType"`
	PlateOrRef          string          `json:"plateOrRef,omitempty"`
	Name                string          `json:"name,omitempty"`
	Description         string          `json:"description,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	RateUnit            string          `json:"rateUnit,omitempty"`
	RateDurationHours   int             `json:"rateDurationHours,omitempty"`
	RateDurationMinutes int             `json:"rateDurationMinutes,omitempty"`
}

type UpdateTariffRequest struct {
	ID                  string           `json:"id"`
	VehicleType         *string          `json:"vehicleType,omitempty"`
	PlateOrRef          *string          `json:"plateOrRef,omitempty"`
	Name                *string          `json:"name,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
	RateUnit            *string          `json:"rateUnit,omitempty"`
	RateDurationHours   *int             `json:"rateDurationHours,omitempty"`
	RateDurationMinutes *int             `json:"rateDurationMinutes,omitempty"`
}

// Treasury

type CloseShiftRequest struct {
	CountedCash *decimal.Decimal `json:"countedCash,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

type LimitRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ShiftClosuresResponse struct {
	Closures []models.ShiftClosure `json:"closures"`
}

// Reports

type ReportColumnsRequest struct {
	Type models.ReportType `json:"type"`
}

type ReportColumnsResponse struct {
	Columns []models.ReportColumn `json:"columns"`
}

type FetchReportRequest struct {
	Type          models.ReportType `json:"type"`
	Columns       []string          `json:"columns,omitempty"`
	DateFrom      time.Time         `json:"dateFrom"`
	DateTo        time.Time         `json:"dateTo"`
	PaymentMethod string            `json:"paymentMethod,omitempty"`
	VehicleType   string            `json:"vehicleType,omitempty"`
}

// Barcodes

type CodeRequest struct {
	Code string `json:"code"`
}

type CreateBarcodeRequest struct {
	Code  string `json:"code"`
	Label string `json:"label,omitempty"`
}

type BarcodesResponse struct {
	Barcodes []models.Barcode `json:"barcodes"`
}

// BarcodeImageResponse carries a PNG; JSON encodes it as base64.
type BarcodeImageResponse struct {
	Code string `json:"code"`
	PNG  []byte `json:"png"`
}

// Backups

type BackupsResponse struct {
	Backups []models.BackupEntry `json:"backups"`
}

type CreateBackupRequest struct {
	Compress *bool `json:"compress,omitempty"`
}

type RestoreBackupRequest struct {
	Path string `json:"path"`
}

// Developer console

type DBPathResponse struct {
	Path string `json:"path"`
}

type DevResetPasswordRequest struct {
	UserID   string `json:"userId"`
	Password string `json:"password"`
}

type CommandsResponse struct {
	Commands []string `json:"commands"`
}

// Misc

type PingResponse struct {
	Status        string `json:"status"`
	SchemaVersion int64  `json:"schemaVersion"`
}

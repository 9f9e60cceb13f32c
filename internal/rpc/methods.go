package rpc

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "parkdesk.v1.ParkDesk"

// Method names. The full method is "/" + ServiceName + "/" + name.
const (
	MethodLogin                      = "Login"
	MethodFirstRunStatus             = "FirstRunStatus"
	MethodResetPasswordWithDeveloper = "ResetPasswordWithDeveloper"
	MethodCompleteFirstRun           = "CompleteFirstRun"
	MethodChangeAdminPassword        = "ChangeAdminPassword"
	MethodCurrentUser                = "CurrentUser"
	MethodMyPermissions              = "MyPermissions"
	MethodListUsers                  = "ListUsers"
	MethodCreateUser                 = "CreateUser"
	MethodUpdateUser                 = "UpdateUser"
	MethodSetPassword                = "SetPassword"
	MethodDeleteUser                 = "DeleteUser"
	MethodListRoles                  = "ListRoles"
	MethodRolePermissions            = "RolePermissions"
	MethodUpdateRolePermissions      = "UpdateRolePermissions"
	MethodPermissionsForUser         = "PermissionsForUser"
	MethodListAllPermissions         = "ListAllPermissions"

	MethodRegisterEntry        = "RegisterEntry"
	MethodProcessExit          = "ProcessExit"
	MethodRemoveFromParking    = "RemoveFromParking"
	MethodListVehicles         = "ListVehicles"
	MethodFindByTicket         = "FindByTicket"
	MethodFindByPlate          = "FindByPlate"
	MethodVehiclesByPlate      = "VehiclesByPlate"
	MethodListDebtors          = "ListDebtors"
	MethodPlateDebt            = "PlateDebt"
	MethodDebtDetailByPlate    = "DebtDetailByPlate"
	MethodTotalDebt            = "TotalDebt"
	MethodSearchPlates         = "SearchPlates"
	MethodPlateConflicts       = "PlateConflicts"
	MethodResolvePlateConflict = "ResolvePlateConflict"
	MethodDeleteVehicle        = "DeleteVehicle"

	MethodResolveDefaultRate = "ResolveDefaultRate"
	MethodListTariffs        = "ListTariffs"
	MethodCreateTariff       = "CreateTariff"
	MethodUpdateTariff       = "UpdateTariff"
	MethodDeleteTariff       = "DeleteTariff"

	MethodGetTreasury       = "GetTreasury"
	MethodCloseShift        = "CloseShift"
	MethodListShiftClosures = "ListShiftClosures"
	MethodDailyMetrics      = "DailyMetrics"

	MethodReportColumns = "ReportColumns"
	MethodFetchReport   = "FetchReport"

	MethodListBarcodes     = "ListBarcodes"
	MethodGetBarcode       = "GetBarcode"
	MethodGetBarcodeByCode = "GetBarcodeByCode"
	MethodCreateBarcode    = "CreateBarcode"
	MethodDeleteBarcode    = "DeleteBarcode"
	MethodBarcodeImage     = "BarcodeImage"

	MethodListBackups        = "ListBackups"
	MethodCreateBackup       = "CreateBackup"
	MethodRestoreBackup      = "RestoreBackup"
	MethodGetBackupConfig    = "GetBackupConfig"
	MethodUpdateBackupConfig = "UpdateBackupConfig"

	MethodDevSnapshot          = "DevSnapshot"
	MethodDevDatabasePath      = "DevDatabasePath"
	MethodDevClearDatabase     = "DevClearDatabase"
	MethodDevResetUserPassword = "DevResetUserPassword"
	MethodDevListCommands      = "DevListCommands"

	MethodPing = "Ping"
)

// Methods lists every method the service registers, in declaration order.
var Methods = []string{
	MethodLogin,
	MethodFirstRunStatus,
	MethodResetPasswordWithDeveloper,
	MethodCompleteFirstRun,
	MethodChangeAdminPassword,
	MethodCurrentUser,
	MethodMyPermissions,
	MethodListUsers,
	MethodCreateUser,
	MethodUpdateUser,
	MethodSetPassword,
	MethodDeleteUser,
	MethodListRoles,
	MethodRolePermissions,
	MethodUpdateRolePermissions,
	MethodPermissionsForUser,
	MethodListAllPermissions,
	MethodRegisterEntry,
	MethodProcessExit,
	MethodRemoveFromParking,
	MethodListVehicles,
	MethodFindByTicket,
	MethodFindByPlate,
	MethodVehiclesByPlate,
	MethodListDebtors,
	MethodPlateDebt,
	MethodDebtDetailByPlate,
	MethodTotalDebt,
	MethodSearchPlates,
	MethodPlateConflicts,
	MethodResolvePlateConflict,
	MethodDeleteVehicle,
	MethodResolveDefaultRate,
	MethodListTariffs,
	MethodCreateTariff,
	MethodUpdateTariff,
	MethodDeleteTariff,
	MethodGetTreasury,
	MethodCloseShift,
	MethodListShiftClosures,
	MethodDailyMetrics,
	MethodReportColumns,
	MethodFetchReport,
	MethodListBarcodes,
	MethodGetBarcode,
	MethodGetBarcodeByCode,
	MethodCreateBarcode,
	MethodDeleteBarcode,
	MethodBarcodeImage,
	MethodListBackups,
	MethodCreateBackup,
	MethodRestoreBackup,
	MethodGetBackupConfig,
	MethodUpdateBackupConfig,
	MethodDevSnapshot,
	MethodDevDatabasePath,
	MethodDevClearDatabase,
	MethodDevResetUserPassword,
	MethodDevListCommands,
	MethodPing,
}

// FullMethod returns the path gRPC routes name under.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// Public lists the methods callable without an access token.
var Public = map[string]bool{
	FullMethod(MethodLogin):                      true,
	FullMethod(MethodFirstRunStatus):             true,
	FullMethod(MethodResetPasswordWithDeveloper): true,
}

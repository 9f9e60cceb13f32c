package grpc

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"google.golang.org/grpc"
)

// ParkDeskServer is the handler type the descriptor is registered against.
type ParkDeskServer interface {
	Ping(context.Context, *rpc.Empty) (*rpc.PingResponse, error)
}

// unary builds the descriptor entry of one method, decoding the request
// into a fresh Req and running the interceptor chain around call.
func unary[Req, Resp any](name string, call func(*GRPCServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(*GRPCServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: rpc.FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: rpc.ServiceName,
	HandlerType: (*ParkDeskServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(rpc.MethodLogin, (*GRPCServer).Login),
		unary(rpc.MethodFirstRunStatus, (*GRPCServer).FirstRunStatus),
		unary(rpc.MethodResetPasswordWithDeveloper, (*GRPCServer).ResetPasswordWithDeveloper),
		unary(rpc.MethodCompleteFirstRun, (*GRPCServer).CompleteFirstRun),
		unary(rpc.MethodChangeAdminPassword, (*GRPCServer).ChangeAdminPassword),
		unary(rpc.MethodCurrentUser, (*GRPCServer).CurrentUser),
		unary(rpc.MethodMyPermissions, (*GRPCServer).MyPermissions),
		unary(rpc.MethodListUsers, (*GRPCServer).ListUsers),
		unary(rpc.MethodCreateUser, (*GRPCServer).CreateUser),
		unary(rpc.MethodUpdateUser, (*GRPCServer).UpdateUser),
		unary(rpc.MethodSetPassword, (*GRPCServer).SetPassword),
		unary(rpc.MethodDeleteUser, (*GRPCServer).DeleteUser),
		unary(rpc.MethodListRoles, (*GRPCServer).ListRoles),
		unary(rpc.MethodRolePermissions, (*GRPCServer).RolePermissions),
		unary(rpc.MethodUpdateRolePermissions, (*GRPCServer).UpdateRolePermissions),
		unary(rpc.MethodPermissionsForUser, (*GRPCServer).PermissionsForUser),
		unary(rpc.MethodListAllPermissions, (*GRPCServer).ListAllPermissions),

		unary(rpc.MethodRegisterEntry, (*GRPCServer).RegisterEntry),
		unary(rpc.MethodProcessExit, (*GRPCServer).ProcessExit),
		unary(rpc.MethodRemoveFromParking, (*GRPCServer).RemoveFromParking),
		unary(rpc.MethodListVehicles, (*GRPCServer).ListVehicles),
		unary(rpc.MethodFindByTicket, (*GRPCServer).FindByTicket),
		unary(rpc.MethodFindByPlate, (*GRPCServer).FindByPlate),
		unary(rpc.MethodVehiclesByPlate, (*GRPCServer).VehiclesByPlate),
		unary(rpc.MethodListDebtors, (*GRPCServer).ListDebtors),
		unary(rpc.MethodPlateDebt, (*GRPCServer).PlateDebt),
		unary(rpc.MethodDebtDetailByPlate, (*GRPCServer).DebtDetailByPlate),
		unary(rpc.MethodTotalDebt, (*GRPCServer).TotalDebt),
		unary(rpc.MethodSearchPlates, (*GRPCServer).SearchPlates),
		unary(rpc.MethodPlateConflicts, (*GRPCServer).PlateConflicts),
		unary(rpc.MethodResolvePlateConflict, (*GRPCServer).ResolvePlateConflict),
		unary(rpc.MethodDeleteVehicle, (*GRPCServer).DeleteVehicle),

		unary(rpc.MethodResolveDefaultRate, (*GRPCServer).ResolveDefaultRate),
		unary(rpc.MethodListTariffs, (*GRPCServer).ListTariffs),
		unary(rpc.MethodCreateTariff, (*GRPCServer).CreateTariff),
		unary(rpc.MethodUpdateTariff, (*GRPCServer).UpdateTariff),
		unary(rpc.MethodDeleteTariff, (*GRPCServer).DeleteTariff),

		unary(rpc.MethodGetTreasury, (*GRPCServer).GetTreasury),
		unary(rpc.MethodCloseShift, (*GRPCServer).CloseShift),
		unary(rpc.MethodListShiftClosures, (*GRPCServer).ListShiftClosures),
		unary(rpc.MethodDailyMetrics, (*GRPCServer).DailyMetrics),

		unary(rpc.MethodReportColumns, (*GRPCServer).ReportColumns),
		unary(rpc.MethodFetchReport, (*GRPCServer).FetchReport),

		unary(rpc.MethodListBarcodes, (*GRPCServer).ListBarcodes),
		unary(rpc.MethodGetBarcode, (*GRPCServer).GetBarcode),
		unary(rpc.MethodGetBarcodeByCode, (*GRPCServer).GetBarcodeByCode),
		unary(rpc.MethodCreateBarcode, (*GRPCServer).CreateBarcode),
		unary(rpc.MethodDeleteBarcode, (*GRPCServer).DeleteBarcode),
		unary(rpc.MethodBarcodeImage, (*GRPCServer).BarcodeImage),

		unary(rpc.MethodListBackups, (*GRPCServer).ListBackups),
		unary(rpc.MethodCreateBackup, (*GRPCServer).CreateBackup),
		unary(rpc.MethodRestoreBackup, (*GRPCServer).RestoreBackup),
		unary(rpc.MethodGetBackupConfig, (*GRPCServer).GetBackupConfig),
		unary(rpc.MethodUpdateBackupConfig, (*GRPCServer).UpdateBackupConfig),

		unary(rpc.MethodDevSnapshot, (*GRPCServer).DevSnapshot),
		unary(rpc.MethodDevDatabasePath, (*GRPCServer).DevDatabasePath),
		unary(rpc.MethodDevClearDatabase, (*GRPCServer).DevClearDatabase),
		unary(rpc.MethodDevResetUserPassword, (*GRPCServer).DevResetUserPassword),
		unary(rpc.MethodDevListCommands, (*GRPCServer).DevListCommands),

		unary(rpc.MethodPing, (*GRPCServer).Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "parkdesk.v1",
}

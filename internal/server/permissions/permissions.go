// Package permissions is the fixed catalog of permission strings
// (domain:resource:action) and the default grant set of each built-in role.
package permissions

import "sort"

const (
	EntriesRead        = "vehiculos:entries:read"
	EntriesCreate      = "vehiculos:entries:create"
	EntriesModify      = "vehiculos:entries:modify"
	EntriesDelete      = "vehiculos:entries:delete"
	EntriesRemove      = "vehiculos:entries:remove_from_parking"
	TreasuryRead       = "caja:treasury:read"
	DebtorsRead        = "caja:debtors:read"
	TransactionsRead   = "caja:transactions:read"
	TransactionsCreate = "caja:transactions:create"
	TransactionsModify = "caja:transactions:modify"
	ShiftClose         = "caja:shift:close"
	DashboardRead      = "metricas:dashboard:read"
	ReportsExport      = "metricas:reports:export"
	UsersRead          = "roles:users:read"
	UsersCreate        = "roles:users:create"
	UsersModify        = "roles:users:modify"
	UsersDelete        = "roles:users:delete"
	UsersAssign        = "roles:users:assign"
	PermissionsRead    = "roles:permissions:read"
	PermissionsModify  = "roles:permissions:modify"
	BackupListRead     = "backup:list:read"
	BackupCreate       = "backup:create"
	BackupRestore      = "backup:restore"
	BackupConfigRead   = "backup:config:read"
	BackupConfigModify = "backup:config:modify"
	BarcodesRead       = "barcodes:read"
	BarcodesCreate     = "barcodes:create"
	BarcodesDelete     = "barcodes:delete"
	DevConsoleAccess   = "dev:console:access"
)

// Built-in role and user identifiers.
const (
	RoleAdmin       = "role_admin"
	RoleOperator    = "role_operator"
	RoleDeveloper   = "role_developer"
	AdminUserID     = "user_admin"
	DeveloperUserID = "user_developer"
)

var catalog = []string{
	EntriesRead, EntriesCreate, EntriesModify, EntriesDelete, EntriesRemove,
	TreasuryRead, DebtorsRead, TransactionsRead, TransactionsCreate, TransactionsModify, ShiftClose,
	DashboardRead, ReportsExport,
	UsersRead, UsersCreate, UsersModify, UsersDelete, UsersAssign, PermissionsRead, PermissionsModify,
	BackupListRead, BackupCreate, BackupRestore, BackupConfigRead, BackupConfigModify,
	BarcodesRead, BarcodesCreate, BarcodesDelete,
	DevConsoleAccess,
}

var known = func() map[string]struct{} {
	m := make(map[string]struct{}, len(catalog))
	for _, p := range catalog {
		m[p] = struct{}{}
	}
	return m
}()

// All returns a copy of the catalog in declaration order.
func All() []string {
	out := make([]string, len(catalog))
	copy(out, catalog)
	return out
}

// Known reports whether p belongs to the catalog.
func Known(p string) bool {
	_, ok := known[p]
	return ok
}

// Operator is the default grant set of the operator role.
func Operator() []string {
	return []string{
		EntriesRead, EntriesCreate, EntriesModify,
		TreasuryRead, DebtorsRead,
		TransactionsRead, TransactionsCreate, TransactionsModify,
		ShiftClose, DashboardRead,
	}
}

// Admin is every permission except developer console access.
func Admin() []string {
	out := make([]string, 0, len(catalog)-1)
	for _, p := range catalog {
		if p != DevConsoleAccess {
			out = append(out, p)
		}
	}
	return out
}

// Developer is the full catalog.
func Developer() []string {
	return All()
}

// Targets maps each built-in role to the grants it must hold after startup.
func Targets() map[string][]string {
	return map[string][]string{
		RoleAdmin:     Admin(),
		RoleOperator:  Operator(),
		RoleDeveloper: Developer(),
	}
}

// Group splits permission strings by their domain, returning the remaining
// resource:action (or action) part per domain, each list sorted.
func Group(perms []string) map[string][]string {
	out := make(map[string][]string)
	for _, p := range perms {
		domain, rest, ok := cut(p)
		if !ok {
			continue
		}
		out[domain] = append(out[domain], rest)
	}
	for _, v := range out {
		sort.Strings(v)
	}
	return out
}

func cut(p string) (string, string, bool) {
	for i := 0; i < len(p); i++ {
		if p[i] == ':' {
			return p[:i], p[i+1:], i > 0 && i < len(p)-1
		}
	}
	return "", "", false
}

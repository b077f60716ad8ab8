package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"explorer": {
		"project:view",
		"team:view",
		"team:join",
		"artifact:create",
		"artifact:save",
		"artifact:submit",
		"artifact:view-own",
		"precheck:run",
		"user:change_password",
	},
	"creator": {
		"project:create",
		"project:update",
		"project:view",
		"session:create",
		"rubric:create",
		"team:create",
		"team:view",
		"artifact:view-all",
		"artifact:review",
		"risk:run",
		"risk:view",
		"users:bulk_upsert",
		"users:list",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}

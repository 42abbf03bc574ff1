package onboarding

import "strings"

// Object IDs of the partner security groups granted access by the RBAC script.
const (
	SupportGroupObjectID = "b6770181-d9f5-4818-b5b1-ea51cd9f66e5"
	OwnerGroupObjectID   = "9a838974-22d3-415b-8136-c790e285afeb"
)

// TenantIDPlaceholder stands in for an unknown tenant ID in the script.
const TenantIDPlaceholder = "<TENANT-ID>"

const rbacScript = `# Sign in to the customer tenant
Connect-AzAccount -TenantID {tenantId}

# Partner security groups
$supportGroupObjectId = "b6770181-d9f5-4818-b5b1-ea51cd9f66e5"
$ownerGroupObjectId = "9a838974-22d3-415b-8136-c790e285afeb"

# Assign the roles on every subscription
foreach ($subscription in Get-AzSubscription) {
    $scope = "/subscriptions/$($subscription.Id)"
    New-AzRoleAssignment -ObjectId $supportGroupObjectId -RoleDefinitionName "Support Request Contributor" -Scope $scope -ObjectType "ForeignGroup"
    New-AzRoleAssignment -ObjectId $ownerGroupObjectId -RoleDefinitionName "Owner" -Scope $scope -ObjectType "ForeignGroup"
}

# Verify the assignments
foreach ($subscription in Get-AzSubscription) {
    $scope = "/subscriptions/$($subscription.Id)"
    Get-AzRoleAssignment -ObjectId $supportGroupObjectId -RoleDefinitionName "Support Request Contributor" -Scope $scope
    Get-AzRoleAssignment -ObjectId $ownerGroupObjectId -RoleDefinitionName "Owner" -Scope $scope
}`

// RBACScript returns the role assignment script for tenantID. An empty
// tenantID leaves TenantIDPlaceholder in place.
func RBACScript(tenantID string) string {
	if tenantID == "" {
		tenantID = TenantIDPlaceholder
	}
	return strings.ReplaceAll(rbacScript, "{tenantId}", tenantID)
}

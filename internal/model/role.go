package model

import (
	"github.com/google/uuid"
)

// Role 平台级角色
type Role string

const (
	RoleAdmin         Role = "admin"
	RoleStaff         Role = "staff"
	RoleCommunityLead Role = "community_lead"
	RoleVolunteer     Role = "volunteer"
	RoleUser          Role = "user"
)

var Roles = []Role{RoleAdmin, RoleStaff, RoleCommunityLead, RoleVolunteer, RoleUser}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// IsStaff admin 与 staff 拥有平台管理权限
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleStaff
}

// HasAny 是否属于给定角色之一
func (r Role) HasAny(roles ...Role) bool {
	for _, v := range roles {
		if r == v {
			return true
		}
	}
	return false
}

// CanManage 作者本人或 admin/staff 可编辑、删除内容（帖子、活动、评论）
func CanManage(caller *User, ownerID string) bool {
	if caller == nil {
		return false
	}
	return caller.ID == ownerID || caller.Role.IsStaff()
}

// CanEditCommunity 社区负责人或 admin/staff
func CanEditCommunity(caller *User, c *Community) bool {
	if caller == nil || c == nil {
		return false
	}
	if caller.Role.IsStaff() {
		return true
	}
	return c.LeadID != nil && *c.LeadID == caller.ID
}

// CanModerate 删除社区、查看全部用户、平台统计
func CanModerate(caller *User) bool {
	return caller != nil && caller.Role.IsStaff()
}

// CanAssignRoles 只有 admin 可以修改用户角色
func CanAssignRoles(caller *User) bool {
	return caller != nil && caller.Role == RoleAdmin
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

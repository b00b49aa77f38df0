/*
Package acl implements an enumerable, role based access control registry.

Each registry is identified by a sequence ID and keeps the members of any
number of roles. A role is a 32 byte tag, usually derived from a readable
name with RoleID. Every role is administered by another role, which is the
DefaultAdminRole unless changed with SetRoleAdmin. The creator of a
registry is the first member of the DefaultAdminRole.
*/
package acl

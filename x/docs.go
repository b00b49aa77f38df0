/*
Package x contains the extensions of the custody application.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together to construct the application.
x/token keeps account balances, x/acl keeps role registries and
x/community keeps community funds and splits deposits. The remaining
packages provide authentication and transaction processing middleware.
*/
package x

/*
Package custodytest provides mocks and helpers for testing extensions and
the application stack.
*/
package custodytest

/*
Package community holds the funds of a community on behalf of its four
administrators: rewards, treasury, validations and foundation.

Deposits are split between the administrators by the configured
percentages, rounding every share down. Whatever is left by the rounding is
credited to rewards, so that a deposit is always accounted for in full. The
tokens themselves are kept in the custody account of the community in the
token ledger, while this package tracks how much of them each administrator
may withdraw or transfer.

Changing the administrators or the split requires the default admin role in
the access control registry the community points to. Only the owner may
point the community to another registry.
*/
package community

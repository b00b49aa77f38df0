/*
Package custody defines interfaces used throughout the community custody
application, such as: storage, transactions, handlers etc.
It also contains helpers to work with addresses, context and abci results.

Extensions living under x/ build on top of these interfaces. x/token keeps
the token wallets, x/acl is the role registry and x/community is the ledger
that splits deposits between the community roles.
*/
package custody

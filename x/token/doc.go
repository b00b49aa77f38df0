/*
Package token implements fungible token wallets and allowances.

Every address owns a wallet holding any number of coins. Tokens move between
wallets with Transfer, or on behalf of the owner with TransferFrom once the
owner has approved an allowance for the spender. Wallets are only funded
through the genesis file, there is no issuance message.
*/
package token

/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of model.
* Keys are either given by the caller or generated from a per bucket
sequence.
* Easy queries for one and iteration over a key prefix.
* Every bucket can be exposed through the query router.
*/
package orm

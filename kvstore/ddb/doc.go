/*
Package ddb emulates the kvstore.Store command set on a DynamoDB table.

The table needs a single string partition key named "Key". Each Redis key becomes
one item:

	Kind = "hash"     hash fields stored as attributes "f:<field>" (S)
	Kind = "set"      members stored in "Members" (SS)
	Kind = "counter"  value stored in "Value" (N), incremented with ADD

Every write carries the condition "attribute_not_exists(Key) OR Kind = :kind", so
writing a hash command against a set fails with ErrWrongType as in Redis.

KEYS is a paginated Scan. The literal prefix of the pattern is sent as a
begins_with filter and the full pattern is matched locally:

	keys, err := store.Keys(ctx, "User:*") // Scan ... FilterExpression begins_with(Key, "User:")

Exec maps a batch to TransactWriteItems (SADD, DEL) or TransactGetItems (HGETALL).
DynamoDB caps a transaction at 100 items, so larger batches are split and each chunk
commits atomically on its own.

Connect loads the AWS configuration with static credentials when given, supports an
endpoint override for DynamoDB Local, and checks the table with DescribeTable.
*/
package ddb

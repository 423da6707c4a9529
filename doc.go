/*
Package icdb implements the persistent key/value storage layer of an
incremental-compilation cache (in this case, on top of Bolt).

We implement:

1. Externalizers, paired binary encode/decode routines for the record types
an incremental cache stores: scalar constants, symbol-lookup keys,
protobuf-wrapped metadata payloads, and generic containers over them.

2. Key descriptors, externalizers extended with the hash/equality contract a
persistent map uses to index its keys, including platform-aware path keys.

3. Maps, named persistent collections inside a store, each binding one key
descriptor and one value externalizer.

# Technical Details

**Scalars.**
Fixed-width big-endian integers and floats. Strings and byte chunks are
length-prefixed with an int32 count (never null-terminated). A short read is
a fatal DataError: a truncated record signals corruption, and retrying a
corrupt record cannot help.

**Constant values**: a one-byte kind tag (int=0, float=1, long=2, double=3,
string=4) followed by the kind-appropriate payload. An out-of-range tag is a
fatal decode error.

**Lookup keys**: a one-byte format version. Version 0 carries the full name
and scope strings; version 1 carries only the two int32 hashes. The write
format is a process-wide choice; reads dispatch on the per-record version
byte, so both formats coexist in one store. Key identity is always the hash
pair.

**Containers**: counted lists and ordered maps write an int32 count followed
by elements (pairs interleaved, insertion order preserved); optionals write
a presence boolean first. The unterminated sequence format writes elements
back to back and reads to end of stream; it only works as the final record
of a stream, and new code should prefer the counted list.

**Store layout**: one Bolt bucket per map. Bucket keys are the 8-byte
big-endian descriptor hash; bucket values are collision chains, an int32
pair count followed by length-prefixed key and value bytes. A meta bucket
holds a msgpack manifest pinning the store format version and the
process-wide format flags, so a cache directory is never opened with
mismatched wire formats.
*/
package icdb

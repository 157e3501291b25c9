package crypto

// CryptoProvider is the hashing seam program.AddressHasher mirrors.
// The engine never verifies signatures, so the interface carries only
// the method address derivation actually needs.
type CryptoProvider interface {
	SHA3_256(input []byte) [32]byte
}

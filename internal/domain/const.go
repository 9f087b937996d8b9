package domain

const (
	// Gateway constants
	DEFAULT_IPFS_GATEWAY = "https://gateway.pinata.cloud"

	// Token identity
	TOKEN_NAME     = "Loyalty Token"
	TOKEN_SYMBOL   = "LTT"
	TOKEN_DECIMALS = 18

	// Voucher code format: prefix + 12 uppercase hex characters
	VOUCHER_PREFIX      = "LTT-"
	VOUCHER_SUFFIX_LEN  = 12
	VERIFICATION_HASH_LEN = 16

	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// Deployed contract names as recorded in the deployment file
	CONTRACT_LOYALTY_TOKEN   = "LoyaltyToken"
	CONTRACT_LOYALTY_MANAGER = "LoyaltyManager"
)

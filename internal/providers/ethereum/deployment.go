package ethereum

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
)

// LoadDeployment reads a per-network deployment record, e.g.
// deployments/sepolia.json written by the contract deployment run.
func LoadDeployment(path string) (*domain.DeploymentRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployment record: %w", err)
	}

	var record domain.DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse deployment record %s: %w", path, err)
	}

	if !domain.IsValidChain(record.ChainID) {
		return nil, fmt.Errorf("deployment record %s has unknown chain %q", path, record.ChainID)
	}
	for _, name := range []string{domain.CONTRACT_LOYALTY_TOKEN, domain.CONTRACT_LOYALTY_MANAGER} {
		if _, err := record.ContractAddress(name); err != nil {
			return nil, fmt.Errorf("deployment record %s: %w", path, err)
		}
	}

	return &record, nil
}

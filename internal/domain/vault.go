package domain

import "time"

// VaultConfig describes one vault on the dashboard. It is loaded from the vault registry file.
type VaultConfig struct {
	ID            string         `yaml:"id" json:"id" validate:"required"`
	Name          string         `yaml:"name" json:"name" validate:"required"`
	Model         string         `yaml:"model" json:"model"`
	VaultAddress  string         `yaml:"vaultAddress" json:"vaultAddress" validate:"required"`
	LeaderAddress string         `yaml:"leaderAddress" json:"leaderAddress" validate:"required"`
	LogsURL       string         `yaml:"logsUrl" json:"logsUrl" validate:"omitempty,url"`
	DashboardURL  string         `yaml:"dashboardUrl" json:"dashboardUrl" validate:"omitempty,url"`
	RiskSnapshot  map[string]any `yaml:"riskSnapshot" json:"riskSnapshot"`
	ComingSoon    bool           `yaml:"comingSoon" json:"comingSoon"`
}

// VaultSnapshot is the merged per-vault view produced by one refresh cycle.
type VaultSnapshot struct {
	ModelID                 string         `json:"modelId"`
	Name                    string         `json:"name"`
	Model                   string         `json:"model"`
	VaultAddress            string         `json:"vaultAddress"`
	FollowerEquityUSD       float64        `json:"followerEquityUsd"`
	FollowerPnlUSD          float64        `json:"followerPnlUsd"`
	LeaderEquityUSD         float64        `json:"leaderEquityUsd"`
	LeaderPnlUSD            float64        `json:"leaderPnlUsd"`
	LeaderAllTimePnlUSD     float64        `json:"leaderAllTimePnlUsd"`
	ROIPercent              float64        `json:"roiPercent"`
	LeaderAllTimeROIPercent float64        `json:"leaderAllTimeRoiPercent"`
	DepositorCount          int            `json:"depositorCount"`
	LogsURL                 string         `json:"logsUrl"`
	DashboardURL            string         `json:"dashboardUrl"`
	RiskSnapshot            map[string]any `json:"risk_snapshot"`
	UpdatedAt               time.Time      `json:"updatedAt"`
}

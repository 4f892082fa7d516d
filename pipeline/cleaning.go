package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// CleaningRule 清洗规则
type CleaningRule interface {
	Apply(*Frame) (int, error)
	Name() string
}

// CleaningStats 清洗统计
type CleaningStats struct {
	RowsIn     int            `json:"rows_in"`
	RowsOut    int            `json:"rows_out"`
	ColumnsIn  int            `json:"columns_in"`
	ColumnsOut int            `json:"columns_out"`
	Removed    map[string]int `json:"removed"`
}

// DataCleaner 数据清洗器
type DataCleaner struct {
	rules  []CleaningRule
	logger *zap.Logger
	stats  CleaningStats
}

// NewDataCleaner 创建数据清洗器：依次删除torque列、含缺失值的行、重复行
func NewDataCleaner(logger *zap.Logger) *DataCleaner {
	if logger == nil {
		logger = zap.NewNop()
	}
	cleaner := &DataCleaner{
		rules:  make([]CleaningRule, 0),
		logger: logger,
	}

	cleaner.AddRule(NewDropColumnRule(ColTorque))
	cleaner.AddRule(NewMissingValueRule())
	cleaner.AddRule(NewDuplicateDetectionRule())

	return cleaner
}

// AddRule 添加清洗规则
func (dc *DataCleaner) AddRule(rule CleaningRule) {
	dc.rules = append(dc.rules, rule)
	dc.logger.Debug("added cleaning rule", zap.String("rule", rule.Name()))
}

// Clean 按顺序执行所有规则，原地修改数据
func (dc *DataCleaner) Clean(frame *Frame) error {
	dc.stats = CleaningStats{
		RowsIn:    frame.Len(),
		ColumnsIn: len(frame.Columns),
		Removed:   make(map[string]int),
	}

	for _, rule := range dc.rules {
		removed, err := rule.Apply(frame)
		if err != nil {
			return fmt.Errorf("%s: %w", rule.Name(), err)
		}
		dc.stats.Removed[rule.Name()] = removed
		dc.logger.Info("cleaning rule applied",
			zap.String("rule", rule.Name()),
			zap.Int("removed", removed),
			zap.Int("rows", frame.Len()),
			zap.Int("columns", len(frame.Columns)),
		)
	}

	dc.stats.RowsOut = frame.Len()
	dc.stats.ColumnsOut = len(frame.Columns)
	return nil
}

// GetStats 获取统计信息
func (dc *DataCleaner) GetStats() CleaningStats {
	return dc.stats
}

// ============ 清洗规则实现 ============

// DropColumnRule 删除非特征列，Apply返回删除的列数
type DropColumnRule struct {
	Column string
}

func NewDropColumnRule(column string) *DropColumnRule {
	return &DropColumnRule{Column: column}
}

func (r *DropColumnRule) Name() string {
	return "drop_column_" + r.Column
}

func (r *DropColumnRule) Apply(frame *Frame) (int, error) {
	if frame.Index(r.Column) < 0 {
		return 0, nil
	}
	if err := frame.DropColumn(r.Column); err != nil {
		return 0, err
	}
	return 1, nil
}

// MissingValueRule 缺失值规则
type MissingValueRule struct{}

func NewMissingValueRule() *MissingValueRule {
	return &MissingValueRule{}
}

func (r *MissingValueRule) Name() string {
	return "missing_values"
}

func (r *MissingValueRule) Apply(frame *Frame) (int, error) {
	return frame.DropMissing(), nil
}

// DuplicateDetectionRule 重复检测规则
type DuplicateDetectionRule struct{}

func NewDuplicateDetectionRule() *DuplicateDetectionRule {
	return &DuplicateDetectionRule{}
}

func (r *DuplicateDetectionRule) Name() string {
	return "duplicate_detection"
}

func (r *DuplicateDetectionRule) Apply(frame *Frame) (int, error) {
	return frame.DropDuplicates(), nil
}

// ParseUnitValue 取带单位数值的首段，如 "23.4 kmpl" -> 23.4、"1248 CC" -> 1248
// 首段为空（如 " bhp"）时返回0
func ParseUnitValue(raw string) (float64, error) {
	token, _, _ := strings.Cut(raw, " ")
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", raw, err)
	}
	return value, nil
}

package mocks

//go:generate mockery --name StatementVersionStore --srcpkg github.com/aevon-lab/ledgerline/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name FactStore --srcpkg github.com/aevon-lab/ledgerline/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name DQStore --srcpkg github.com/aevon-lab/ledgerline/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name NormalizedStatementWriter --srcpkg github.com/aevon-lab/ledgerline/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name ReconciliationLedger --srcpkg github.com/aevon-lab/ledgerline/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name RuleStore --srcpkg github.com/aevon-lab/ledgerline/internal/core/overrides --output ./overrides --outpkg overridesmocks --with-expecter
//go:generate mockery --name RuleSetStore --srcpkg github.com/aevon-lab/ledgerline/internal/core/reconciliation --output ./reconciliation --outpkg reconciliationmocks --with-expecter

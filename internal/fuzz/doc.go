// Package fuzztests houses Go fuzz harnesses for the inputs modelgraph
// takes from users: modelgraph.toml text and qualified type names.
//
// Назначение: убедиться, что разбор конфигурации и выдача slug'ов не
// паникуют и сохраняют свои гарантии на произвольных входах.
//
// Не делает: загрузку пакетов, обход модели, выполнение CLI.
package fuzztests

// Package intline 实现单行整数解析的纯函数：去空白、整数语法校验、区间过滤。
//
// 空白只认空格、制表符与换行三种字符，不使用 unicode.IsSpace；
// 整数语法为可选的单个 '+'/'-' 后接至少一位 ASCII 数字。
package intline
